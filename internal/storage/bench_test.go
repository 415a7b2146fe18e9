package storage

import (
	"fmt"
	"testing"
	"time"
)

func BenchmarkAddDiary(b *testing.B) {
	store := createBenchStorage(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := store.AddDiary(Diary{Title: fmt.Sprintf("Entry %d", i), Description: "body"})
		if err != nil {
			b.Fatalf("AddDiary failed: %v", err)
		}
	}
}

func BenchmarkLoadDiaries(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			store := createBenchStorage(b)
			if err := store.SaveDiaries(&DiaryStore{Diaries: makeDiaries(size)}); err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.LoadDiaries(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGroupByDay(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			diaries := makeDiaries(size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = GroupByDay(diaries, time.UTC)
			}
		})
	}
}

func makeDiaries(n int) []Diary {
	now := time.Now()
	out := make([]Diary, n)
	for i := range out {
		out[i] = Diary{
			ID:          fmt.Sprintf("d_%d", i),
			Mood:        Moods[i%len(Moods)],
			Title:       fmt.Sprintf("Entry %d", i),
			Description: "Lorem ipsum dolor sit amet",
			Date:        now.Add(-time.Duration(i) * 7 * time.Hour),
			CreatedAt:   now.Add(-time.Duration(i) * 7 * time.Hour),
		}
	}
	return out
}

// createBenchStorage creates a storage instance for benchmarks
func createBenchStorage(b *testing.B) *Storage {
	b.Helper()
	store, err := New(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create bench storage: %v", err)
	}
	return store
}
