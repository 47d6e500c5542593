package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/molframe"
	"github.com/hupe1980/molframe/frame"
)

func BenchmarkSMILES2Mol(b *testing.B) {
	for _, invalid := range []float64{0, 0.1} {
		for _, cache := range []int{0, 64} {
			b.Run(fmt.Sprintf("invalid=%.1f/cache=%d", invalid, cache), func(b *testing.B) {
				smiles := benchSMILES(sizeSmall, invalid)
				t, err := molframe.New(molframe.WithParseCache(cache))
				if err != nil {
					b.Fatal(err)
				}

				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := t.SMILES2Mol(frame.FromStrings("smiles", smiles), "smiles", "mol"); err != nil {
						b.Fatal(err)
					}
				}
				b.ReportMetric(float64(sizeSmall*b.N)/b.Elapsed().Seconds(), "rows/s")
			})
		}
	}
}

func BenchmarkPipeline(b *testing.B) {
	p := molframe.NewPipeline("smiles", "mol").Morgan().Descriptors().MACCS().MustBuild()
	smiles := benchSMILES(sizeSmall, 0.05)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := p.Run(frame.FromStrings("smiles", smiles))
		if err != nil {
			b.Fatal(err)
		}
		if _, err := res.Features(); err != nil {
			b.Fatal(err)
		}
	}
}
