package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "same content produces same ID",
			content: "test content",
		},
		{
			name:    "empty string",
			content: "",
		},
		{
			name:    "long content",
			content: "cos,https://www.cos.com/en-eu/some-very-long-product-path-that-should-hash-consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestKey_Tuple(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "basic key",
			key: Key{
				Source:     "cos",
				ProductURL: "https://www.cos.com/en-eu/knitted-jumper",
			},
			want: "(cos,https://www.cos.com/en-eu/knitted-jumper)",
		},
		{
			name: "empty key",
			key:  Key{},
			want: "(,)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.Tuple(); got != tt.want {
				t.Errorf("Key.Tuple() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_ID(t *testing.T) {
	a := Key{Source: "cos", ProductURL: "https://www.cos.com/en-eu/a"}
	b := Key{Source: "cos", ProductURL: "https://www.cos.com/en-eu/b"}

	if a.ID() != a.ID() {
		t.Errorf("Key.ID() is not deterministic")
	}
	if a.ID() == b.ID() {
		t.Errorf("Key.ID() produced same ID for different keys")
	}
}

func TestGender_String(t *testing.T) {
	tests := []struct {
		name   string
		gender Gender
		want   string
	}{
		{name: "woman", gender: GenderWoman, want: "WOMAN"},
		{name: "man", gender: GenderMan, want: "MAN"},
		{name: "zero value", gender: 0, want: "Gender(0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.gender.String(); got != tt.want {
				t.Errorf("Gender.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseGender(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Gender
		wantErr bool
	}{
		{name: "woman", input: "WOMAN", want: GenderWoman},
		{name: "man", input: "MAN", want: GenderMan},
		{name: "lowercase rejected", input: "man", wantErr: true},
		{name: "unknown", input: "OTHER", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGender(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGender(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseGender(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProduct_HasEmbedding(t *testing.T) {
	p := &Product{}
	if p.HasEmbedding() {
		t.Errorf("HasEmbedding() = true for product without vector")
	}

	p.Embedding = []float32{0.1, 0.2, 0.3}
	if !p.HasEmbedding() {
		t.Errorf("HasEmbedding() = false for product with vector")
	}
}
