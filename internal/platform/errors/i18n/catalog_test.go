package i18n

import "testing"

func TestGetCatalogResolvesLocale(t *testing.T) {
	tests := []struct {
		requested string
		want      string
	}{
		{requested: "en-US", want: "en-US"},
		{requested: "pt", want: "pt-BR"},
		{requested: "pt-BR", want: "pt-BR"},
		{requested: "tlh", want: "en-US"},
		{requested: "", want: "en-US"},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.requested).Locale(); got != tt.want {
			t.Errorf("GetCatalog(%q).Locale() = %q, want %q", tt.requested, got, tt.want)
		}
	}
	if GetCatalog("tlh") != GetCatalog("en-US") {
		t.Error("unsupported locale should share the en-US catalog")
	}
}

func TestCatalogMessages(t *testing.T) {
	tests := []struct {
		locale   string
		code     Code
		metadata map[string]string
		want     string
	}{
		{locale: "pt-BR", code: "VETO_ALREADY_VOTED", want: "Você já votou neste pedido"},
		{locale: "en-US", code: "PLACEMENT_INSUFFICIENT_CURRENCY", metadata: map[string]string{"Cost": "25"}, want: "You need 25 coins to place an item"},
		{locale: "en-US", code: "NOT_A_CODE", want: "NOT_A_CODE"},
	}
	for _, tt := range tests {
		if got := GetCatalog(tt.locale).Format(tt.code, tt.metadata); got != tt.want {
			t.Errorf("%s Format(%s) = %q, want %q", tt.locale, tt.code, got, tt.want)
		}
	}
	if !GetCatalog("pt-BR").Has("CALLER_MISSING") {
		t.Error("pt-BR should inherit CALLER_MISSING from en-US")
	}
}

func TestFormatTemplateEdgeCases(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"greet":  "hello {{.Name}}",
		"broken": "{{ if .Name }}",
	})
	if got := cat.Format("greet", nil); got != "hello <no value>" {
		t.Fatalf("missing metadata = %q", got)
	}
	if got := cat.Format("greet", map[string]string{"Name": "Ana"}); got != "hello Ana" {
		t.Fatalf("with metadata = %q", got)
	}
	if got := cat.Format("broken", map[string]string{"Name": "Ana"}); got != "{{ if .Name }}" {
		t.Fatalf("unparseable template = %q", got)
	}
}

func TestRegisterCatalogOverrides(t *testing.T) {
	custom := NewCatalog("x-test", map[Code]string{"code": "ok"})
	RegisterCatalog("x-test", custom)
	if got := GetCatalog("x-test"); got != custom {
		t.Fatal("GetCatalog did not return the registered catalog")
	}
}
