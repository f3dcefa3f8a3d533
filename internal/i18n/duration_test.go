package i18n

import "testing"

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds int
		lang    string
		want    string
	}{
		{seconds: 3661, lang: "en", want: "1 hour 1 minute"},
		{seconds: 0, lang: "en", want: "0 minutes"},
		{seconds: 59, lang: "en", want: "0 minutes"},
		{seconds: -30, lang: "en", want: "0 minutes"},
		{seconds: 7200, lang: "en", want: "2 hours"},
		{seconds: 3840, lang: "en", want: "1 hour 4 minutes"},
		{seconds: 60, lang: "en", want: "1 minute"},
		{seconds: 3600 * 5, lang: "en", want: "5 hours"},
		{seconds: 3661, lang: "cs", want: "1 hodina 1 minuta"},
		{seconds: 3 * 60, lang: "cs", want: "3 minuty"},
		{seconds: 5 * 60, lang: "cs", want: "5 minut"},
		{seconds: 0, lang: "cs", want: "0 minut"},
		{seconds: 2*3600 + 22*60, lang: "cs", want: "2 hodiny 22 minut"},
		{seconds: 25 * 3600, lang: "cs", want: "25 hodin"},
		{seconds: 120, lang: "xx", want: "2 minutes"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			if got := FormatDuration(tt.seconds, tt.lang); got != tt.want {
				t.Fatalf("FormatDuration(%d, %q) = %q, want %q", tt.seconds, tt.lang, got, tt.want)
			}
		})
	}
}

func TestPlural(t *testing.T) {
	t.Parallel()

	want := map[int]PluralForm{0: Many, 1: One, 2: Few, 3: Few, 4: Few, 5: Many, 11: Many, 22: Many}
	for n, form := range want {
		if got := Plural(n); got != form {
			t.Fatalf("Plural(%d) = %v, want %v", n, got, form)
		}
	}
}
