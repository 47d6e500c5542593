// Package export writes feature frames to formats consumed by modeling
// tools.
//
//   - NumPy: WriteNPY / ReadNPY store the float64 matrix (rows x columns).
//   - Arrow: ToArrow / FromArrow convert to an in-memory record batch; the
//     row index travels as the "__index_level_0__" column.
//   - Parquet: WriteParquet / ReadParquet persist the Arrow form.
//   - SQLite: WriteSQLite / ReadSQLite store one little-endian float64 BLOB
//     per row alongside its row index.
package export
