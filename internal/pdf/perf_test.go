package pdf

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spherical/cv-extractor/internal/testutil"
)

func longResume(tb testing.TB, paragraphs int) []byte {
	items := make([]string, paragraphs)
	for i := range items {
		items[i] = fmt.Sprintf("%d. %s", i, strings.Repeat("Responsible for delivery of the payments platform. ", 6))
	}
	return testutil.DOCX(tb, testutil.DocumentXML(items...))
}

// TestMemoryUsageSequentialConversions verifies that repeated conversions
// do not retain memory between runs.
func TestMemoryUsageSequentialConversions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	docx := longResume(t, 400)
	c := NewConverter()
	ctx := context.Background()

	// Warm up so lazily allocated state is not counted.
	_, err := c.Render(ctx, bytes.NewReader(docx))
	require.NoError(t, err)

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	for i := 0; i < 20; i++ {
		_, err := c.Render(ctx, bytes.NewReader(docx))
		require.NoError(t, err)
	}

	runtime.GC()
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	growth := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	t.Logf("Heap before: %d KB, after: %d KB", before.HeapAlloc/1024, after.HeapAlloc/1024)
	if growth > 8<<20 {
		t.Errorf("heap grew by %d MB across sequential conversions", growth>>20)
	}
}

func BenchmarkConverterRender(b *testing.B) {
	docx := longResume(b, 200)
	c := NewConverter()
	ctx := context.Background()

	b.ReportAllocs()
	b.SetBytes(int64(len(docx)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.Render(ctx, bytes.NewReader(docx)); err != nil {
			b.Fatal(err)
		}
	}
}
