package analyzer

import (
	"math"
	"testing"
)

func testTable() *Table {
	return &Table{
		Columns: []string{"Task", "Status", "Hours"},
		Rows: [][]string{
			{"Design", "Done", "8"},
			{"Build", "In Progress", "20"},
			{"Test", "Done", "12"},
			{"Ship", "Pending", ""},
		},
	}
}

func TestMemFrame_ValueCounts(t *testing.T) {
	f := NewMemFrame(testTable())
	defer f.Close()

	counts, err := f.ValueCounts("Status")
	if err != nil {
		t.Fatalf("ValueCounts: %v", err)
	}
	if counts["Done"] != 2 {
		t.Errorf("expected Done=2, got %d", counts["Done"])
	}
	if counts["In Progress"] != 1 {
		t.Errorf("expected In Progress=1, got %d", counts["In Progress"])
	}

	if _, err := f.ValueCounts("Nope"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestMemFrame_DistinctCount(t *testing.T) {
	f := NewMemFrame(testTable())
	defer f.Close()

	n, err := f.DistinctCount("Status")
	if err != nil {
		t.Fatalf("DistinctCount: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 distinct statuses, got %d", n)
	}
}

func TestMemFrame_NumericStats(t *testing.T) {
	f := NewMemFrame(testTable())
	defer f.Close()

	t.Run("numeric column skips empties", func(t *testing.T) {
		stats, ok, err := f.NumericStats("Hours")
		if err != nil {
			t.Fatalf("NumericStats: %v", err)
		}
		if !ok {
			t.Fatal("expected Hours to be numeric")
		}
		if stats.Count != 3 {
			t.Errorf("expected count 3, got %d", stats.Count)
		}
		if math.Abs(stats.Mean-40.0/3) > 1e-9 {
			t.Errorf("unexpected mean %f", stats.Mean)
		}
		if stats.Median != 12 {
			t.Errorf("expected median 12, got %f", stats.Median)
		}
		if stats.Min != 8 || stats.Max != 20 {
			t.Errorf("unexpected min/max %f/%f", stats.Min, stats.Max)
		}
	})

	t.Run("text column is not numeric", func(t *testing.T) {
		_, ok, err := f.NumericStats("Status")
		if err != nil {
			t.Fatalf("NumericStats: %v", err)
		}
		if ok {
			t.Error("expected Status to be non-numeric")
		}
	})
}

func TestMemFrame_Values(t *testing.T) {
	f := NewMemFrame(testTable())
	defer f.Close()

	values, err := f.Values("Hours")
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if len(values) != 4 {
		t.Fatalf("expected 4 values, got %d", len(values))
	}
	if values[3] != "" {
		t.Errorf("expected empty cell preserved, got %q", values[3])
	}
}

func TestComputeStats_SampleStd(t *testing.T) {
	stats := computeStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(stats.Std-2.138089935) > 1e-6 {
		t.Errorf("unexpected sample std %f", stats.Std)
	}

	single := computeStats([]float64{42})
	if single.Std != 0 {
		t.Errorf("expected zero std for single value, got %f", single.Std)
	}
}

func TestDuckFrame(t *testing.T) {
	frame, err := NewDuckFrame(t.TempDir(), "frame_test", testTable())
	if err != nil {
		t.Fatalf("NewDuckFrame: %v", err)
	}
	defer frame.Close()

	t.Run("value counts", func(t *testing.T) {
		counts, err := frame.ValueCounts("Status")
		if err != nil {
			t.Fatalf("ValueCounts: %v", err)
		}
		if counts["Done"] != 2 || counts["Pending"] != 1 {
			t.Errorf("unexpected counts %v", counts)
		}
	})

	t.Run("distinct count", func(t *testing.T) {
		n, err := frame.DistinctCount("Task")
		if err != nil {
			t.Fatalf("DistinctCount: %v", err)
		}
		if n != 4 {
			t.Errorf("expected 4 distinct tasks, got %d", n)
		}
	})

	t.Run("numeric stats via try_cast", func(t *testing.T) {
		stats, ok, err := frame.NumericStats("Hours")
		if err != nil {
			t.Fatalf("NumericStats: %v", err)
		}
		if !ok {
			t.Fatal("expected Hours to be numeric")
		}
		if stats.Count != 3 || stats.Min != 8 || stats.Max != 20 {
			t.Errorf("unexpected stats %+v", stats)
		}

		if _, ok, _ := frame.NumericStats("Status"); ok {
			t.Error("expected Status to be non-numeric")
		}
	})

	t.Run("values keep row order", func(t *testing.T) {
		values, err := frame.Values("Task")
		if err != nil {
			t.Fatalf("Values: %v", err)
		}
		want := []string{"Design", "Build", "Test", "Ship"}
		for i, w := range want {
			if values[i] != w {
				t.Errorf("row %d: expected %s, got %s", i, w, values[i])
			}
		}
	})
}
