package browser

import "testing"

func TestCommand(t *testing.T) {
	tests := []struct {
		goos    string
		name    string
		wantErr bool
	}{
		{"darwin", "open", false},
		{"linux", "xdg-open", false},
		{"windows", "rundll32", false},
		{"plan9", "", true},
	}
	for _, tt := range tests {
		name, args, err := command(tt.goos, "http://x/s/abc")
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error %v, got %v", tt.goos, tt.wantErr, err)
			continue
		}
		if name != tt.name {
			t.Errorf("%s: expected %s, got %s", tt.goos, tt.name, name)
		}
		if !tt.wantErr && args[len(args)-1] != "http://x/s/abc" {
			t.Errorf("%s: expected url as last arg, got %v", tt.goos, args)
		}
	}
}
