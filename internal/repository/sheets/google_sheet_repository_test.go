package sheets

import "testing"

func TestTabRange(t *testing.T) {
	tests := []struct {
		sheet   string
		want    string
		wantErr bool
	}{
		{sheet: "Data Operasional", want: "'Data Operasional'"},
		{sheet: "  Karyawan ", want: "'Karyawan'"},
		{sheet: "Bob's tab", want: "'Bob''s tab'"},
		{sheet: " ", wantErr: true},
	}

	for _, tt := range tests {
		got, err := tabRange(tt.sheet)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("tabRange(%q): expected error", tt.sheet)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("tabRange(%q) = %q, %v; want %q", tt.sheet, got, err, tt.want)
		}
	}
}
