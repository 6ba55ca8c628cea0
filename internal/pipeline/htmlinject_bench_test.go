//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkInjectPreview measures marker scanning and reassembly as the body grows.
func BenchmarkInjectPreview(b *testing.B) {
	injector := &PreviewInjection{}
	ctx := context.Background()
	css := strings.Repeat(".webset-page p { margin: 0; }\n", 20)

	for _, paragraphs := range []int{1, 100, 1000, 10000} {
		doc := "<html><head><title>bench</title></head><body>" +
			strings.Repeat("<p>Lorem ipsum dolor sit amet.</p>\n", paragraphs) +
			"</body></html>"

		b.Run(fmt.Sprintf("paragraphs_%d", paragraphs), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(doc)))
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := injector.InjectPreview(ctx, doc, css); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
