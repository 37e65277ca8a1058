package aos

import (
	"fmt"
	"testing"
)

var sizes = []int{1_000, 10_000, 100_000}

var energySink float32

func BenchmarkUpdatePositions(b *testing.B) {
	for _, n := range sizes {
		b.Run(fmt.Sprintf("%dK", n/1000), func(b *testing.B) {
			s := New(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.UpdatePositions(0.016)
			}
		})
	}
}

func BenchmarkKineticEnergy(b *testing.B) {
	for _, n := range sizes {
		b.Run(fmt.Sprintf("%dK", n/1000), func(b *testing.B) {
			s := New(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				energySink = s.KineticEnergy()
			}
		})
	}
}

func BenchmarkApplyGravity(b *testing.B) {
	for _, n := range sizes {
		b.Run(fmt.Sprintf("%dK", n/1000), func(b *testing.B) {
			s := New(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.ApplyGravity(earthGravity, 0.016)
			}
		})
	}
}

func BenchmarkUpdate(b *testing.B) {
	for _, n := range sizes {
		b.Run(fmt.Sprintf("%dK", n/1000), func(b *testing.B) {
			s := New(n)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				energySink = s.Update(earthGravity, 0.016)
			}
		})
	}
}
