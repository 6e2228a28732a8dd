package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("<xliff/>"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestEmpty(t *testing.T) {
	b, err := Empty{}.Resolve(language.French)
	if err != nil || b != nil {
		t.Errorf("Empty.Resolve: got (%v, %v), want (nil, nil)", b, err)
	}
}

func TestFileLocale(t *testing.T) {
	tests := []struct {
		tag  language.Tag
		want string
	}{
		{language.English, "en"},
		{language.BrazilianPortuguese, "pt_BR"},
		{language.MustParse("sr-Latn-RS"), "sr_Latn_RS"},
	}
	for _, tt := range tests {
		if got := FileLocale(tt.tag); got != tt.want {
			t.Errorf("FileLocale(%v): got %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestFallbacks(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"en", []string{"en"}},
		{"pt-BR", []string{"pt-BR", "pt"}},
		{"zh-Hant", []string{"zh-Hant", "zh"}},
		{"sr-Latn-RS", []string{"sr-Latn-RS", "sr-Latn", "sr"}},
		{"ca-ES-valencia", []string{"ca-ES-valencia", "ca-ES", "ca"}},
		{"de-1996", []string{"de-1996", "de"}},
		{"en-US-u-ca-buddhist", []string{"en-US", "en"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var got []string
			for _, tag := range fallbacks(language.MustParse(tt.in)) {
				got = append(got, tag.String())
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("fallbacks(%s) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDirResolver(t *testing.T) {
	dir := t.TempDir()
	ptBR := touch(t, dir, "messages_pt_BR.xlf")
	pl := touch(t, dir, "messages_pl.xlf")
	en := touch(t, dir, "messages_en.xlf")

	tests := []struct {
		name       string
		fallbackEn bool
		locale     language.Tag
		wantPath   string
		wantLocale language.Tag
	}{
		{"und has no bundle", true, language.Und, "", language.Und},
		{"exact regional", false, language.BrazilianPortuguese, ptBR, language.BrazilianPortuguese},
		{"regional falls back to base", false, language.MustParse("pl-PL"), pl, language.Polish},
		{"unknown without english fallback", false, language.German, "", language.Und},
		{"unknown with english fallback", true, language.German, en, language.English},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewDirResolver(dir, tt.fallbackEn, false)
			b, err := r.Resolve(tt.locale)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if tt.wantPath == "" {
				if b != nil {
					t.Errorf("expected no bundle, got %+v", b)
				}
				return
			}
			if b == nil {
				t.Fatalf("expected bundle %s, got nil", tt.wantPath)
			}
			if b.Path != tt.wantPath {
				t.Errorf("path: got %q, want %q", b.Path, tt.wantPath)
			}
			if b.Locale != tt.wantLocale {
				t.Errorf("locale: got %v, want %v", b.Locale, tt.wantLocale)
			}
		})
	}
}

func TestDirResolverCaching(t *testing.T) {
	t.Run("cached lookups ignore new files", func(t *testing.T) {
		dir := t.TempDir()
		r := NewDirResolver(dir, false, false)

		if b, _ := r.Resolve(language.French); b != nil {
			t.Fatalf("expected no bundle, got %+v", b)
		}
		touch(t, dir, "messages_fr.xlf")
		if b, _ := r.Resolve(language.French); b != nil {
			t.Errorf("expected cached miss, got %+v", b)
		}
	})

	t.Run("hot reload sees new files", func(t *testing.T) {
		dir := t.TempDir()
		r := NewDirResolver(dir, false, true)

		if b, _ := r.Resolve(language.French); b != nil {
			t.Fatalf("expected no bundle, got %+v", b)
		}
		fr := touch(t, dir, "messages_fr.xlf")
		b, _ := r.Resolve(language.French)
		if b == nil || b.Path != fr {
			t.Errorf("expected %s after hot reload, got %+v", fr, b)
		}
	})

	t.Run("custom prefix and extension", func(t *testing.T) {
		dir := t.TempDir()
		p := touch(t, dir, "strings_fr.xtb")
		r := &DirResolver{Dir: dir, Prefix: "strings", Extension: ".xtb"}
		b, err := r.Resolve(language.French)
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if b == nil || b.Path != p {
			t.Errorf("got %+v, want path %s", b, p)
		}
	})
}

func TestDirResolverVariant(t *testing.T) {
	dir := t.TempDir()
	valencia := touch(t, dir, "messages_ca_ES_valencia.xlf")
	touch(t, dir, "messages_ca_ES.xlf")

	b, err := NewDirResolver(dir, false, false).Resolve(language.MustParse("ca-ES-valencia"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b == nil || b.Path != valencia {
		t.Fatalf("got %+v, want %s", b, valencia)
	}
	if FileLocale(b.Locale) != "ca_ES_valencia" {
		t.Errorf("locale: got %s, want ca_ES_valencia", FileLocale(b.Locale))
	}
}
