package record

import (
	"errors"
	"reflect"
	"testing"
)

func TestRecord_AliasResolution(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		get  func(Record) string
		want string
	}{
		{"doi canonical", Record{"doi": "10.1/a", "do": "10.1/b"}, Record.DOI, "10.1/a"},
		{"doi tag fallback", Record{"do": "10.1/b"}, Record.DOI, "10.1/b"},
		{"title canonical", Record{"title": "T", "ti": "U"}, Record.Title, "T"},
		{"title primary fallback", Record{"primary_title": "P", "ti": "U"}, Record.Title, "P"},
		{"title tag fallback", Record{"ti": "U"}, Record.Title, "U"},
		{"empty canonical falls through", Record{"title": "", "ti": "U"}, Record.Title, "U"},
		{"year canonical", Record{"year": "2020", "py": "1999"}, Record.Year, "2020"},
		{"year tag fallback", Record{"py": "1999"}, Record.Year, "1999"},
		{"journal chain", Record{"t2": "Nature"}, Record.Journal, "Nature"},
		{"journal jo before t2", Record{"jo": "Science", "t2": "Nature"}, Record.Journal, "Science"},
		{"abstract chain", Record{"n2": "text"}, Record.Abstract, "text"},
		{"absent", Record{}, Record.Title, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.get(tt.rec); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_Coercion(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"int year", Record{"year": 2023}, "2023"},
		{"int64 year", Record{"year": int64(2023)}, "2023"},
		{"whole float year", Record{"year": 2023.0}, "2023"},
		{"fractional float kept", Record{"year": 2023.5}, "2023.5"},
		{"nil absent", Record{"year": nil}, ""},
		{"unsupported type absent", Record{"year": []int{2023}}, ""},
		{"bool absent", Record{"year": true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Year(); got != tt.want {
				t.Errorf("Year() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_Authors(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want []string
	}{
		{"string slice", Record{"authors": []string{"Smith, J.", "Doe, J."}}, []string{"Smith, J.", "Doe, J."}},
		{"any slice", Record{"authors": []any{"Smith, J.", "Doe, J."}}, []string{"Smith, J.", "Doe, J."}},
		{"single string promoted", Record{"authors": "Smith, J."}, []string{"Smith, J."}},
		{"au alias", Record{"au": []string{"Smith, J."}}, []string{"Smith, J."}},
		{"empty slice falls through", Record{"authors": []string{}, "au": []string{"Doe, J."}}, []string{"Doe, J."}},
		{"absent", Record{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Authors(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Authors() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if _, err := Validate(map[string]any{"title": "T"}); err != nil {
		t.Errorf("Validate(map) error = %v", err)
	}
	if _, err := Validate(Record{"title": "T"}); err != nil {
		t.Errorf("Validate(Record) error = %v", err)
	}

	_, err := Validate("not a mapping")
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Validate(string) error = %v, want ErrInvalidShape", err)
	}
}

func TestSlice(t *testing.T) {
	recs, err := Slice([]any{
		map[string]any{"title": "A"},
		map[string]any{"title": "B"},
	})
	if err != nil {
		t.Fatalf("Slice() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Slice() len = %d, want 2", len(recs))
	}

	_, err = Slice([]any{map[string]any{"title": "A"}, 42})
	if !errors.Is(err, ErrInvalidShape) {
		t.Errorf("Slice() error = %v, want ErrInvalidShape", err)
	}
}

func TestRecord_CloneAndStrip(t *testing.T) {
	rec := Record{"title": "T", "temp_key": "TY:t_2020"}

	clone := rec.Clone()
	clone["extra"] = true
	if _, ok := rec["extra"]; ok {
		t.Error("Clone() should not share storage with the original")
	}

	stripped := rec.StripInternal()
	if _, ok := stripped["temp_key"]; ok {
		t.Error("StripInternal() should remove temp_key")
	}
	if _, ok := rec["temp_key"]; !ok {
		t.Error("StripInternal() should not mutate the original")
	}

	// No annotation: same record comes back without copying.
	plain := Record{"title": "T"}
	if got := plain.StripInternal(); len(got) != 1 {
		t.Errorf("StripInternal() on clean record = %v", got)
	}
}
