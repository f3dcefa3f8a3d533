package i18n

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"testing"

	"gopkg.in/yaml.v2"

	"github.com/iamwavecut/ngmod/resources"
)

func TestTranslationsKeysAreUsedAndComplete(t *testing.T) {
	t.Parallel()

	used, err := collectUsedI18nKeys()
	if err != nil {
		t.Fatalf("collect used i18n keys: %v", err)
	}
	if len(used) == 0 {
		t.Fatalf("no i18n keys found")
	}

	for _, lang := range Languages() {
		if lang == fallback {
			continue
		}
		dict, err := loadTranslationsDict(lang)
		if err != nil {
			t.Fatalf("load %s translations: %v", lang, err)
		}
		defined := make([]string, 0, len(dict))
		for key, value := range dict {
			if strings.TrimSpace(value) == "" {
				t.Fatalf("empty %s translation for key %q", lang, key)
			}
			defined = append(defined, key)
		}
		sort.Strings(defined)

		if missing := difference(used, defined); len(missing) > 0 {
			t.Fatalf("missing %s translation keys:\n%s", lang, strings.Join(missing, "\n"))
		}
		if unused := difference(defined, used); len(unused) > 0 {
			t.Fatalf("unused %s translation keys:\n%s", lang, strings.Join(unused, "\n"))
		}
	}
}

func TestTranslationsKeepTemplatePlaceholders(t *testing.T) {
	t.Parallel()

	dict, err := loadTranslationsDict("cs")
	if err != nil {
		t.Fatalf("load translations: %v", err)
	}
	for key, value := range dict {
		for _, placeholder := range []string{"{{ .user }}", "{{ .role }}", "{{ .actor }}", "{{ .reason }}", "{{ .minutes }}", "{{ .left }}", "{{ .command }}"} {
			if strings.Contains(key, placeholder) != strings.Contains(value, placeholder) {
				t.Fatalf("placeholder %s mismatch for key %q", placeholder, key)
			}
		}
	}
}

func TestGetTranslates(t *testing.T) {
	t.Parallel()

	key := "This only works on a server."
	if got := Get(key, "en"); got != key {
		t.Fatalf("English must return the key, got %q", got)
	}
	if got := Get(key, "cs"); got == key || got == "" {
		t.Fatalf("expected Czech translation, got %q", got)
	}
	if got := Get("no such key", "cs"); got != "no such key" {
		t.Fatalf("unknown key must fall back to itself, got %q", got)
	}
}

func collectUsedI18nKeys() ([]string, error) {
	root, err := repoRoot()
	if err != nil {
		return nil, err
	}

	internalDir := filepath.Join(root, "internal")
	fileSet := token.NewFileSet()
	keys := make(map[string]struct{})

	err = filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		node, err := parser.ParseFile(fileSet, path, nil, parser.SkipObjectResolution)
		if err != nil {
			return err
		}

		ast.Inspect(node, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			selector, ok := call.Fun.(*ast.SelectorExpr)
			if !ok || selector.Sel == nil || selector.Sel.Name != "Get" {
				return true
			}
			pkgIdent, ok := selector.X.(*ast.Ident)
			if !ok || pkgIdent.Name != "i18n" {
				return true
			}
			if len(call.Args) < 1 {
				return true
			}
			value, ok := stringLiteralValue(call.Args[0])
			if !ok || value == "" {
				return true
			}
			keys[value] = struct{}{}
			return true
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(keys))
	for key := range keys {
		result = append(result, key)
	}
	sort.Strings(result)
	return result, nil
}

func loadTranslationsDict(lang string) (map[string]string, error) {
	content, err := resources.FS.ReadFile(fmt.Sprintf("%s/%s.yml", resourcesPath, lang))
	if err != nil {
		return nil, err
	}
	dict := map[string]string{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return nil, err
	}
	return dict, nil
}

func difference(left, right []string) []string {
	rightSet := make(map[string]struct{}, len(right))
	for _, item := range right {
		rightSet[item] = struct{}{}
	}
	diff := make([]string, 0)
	for _, item := range left {
		if _, ok := rightSet[item]; !ok {
			diff = append(diff, item)
		}
	}
	return diff
}

func stringLiteralValue(expr ast.Expr) (string, bool) {
	basic, ok := expr.(*ast.BasicLit)
	if !ok || basic.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(basic.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

func repoRoot() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("runtime caller is unavailable")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(currentFile), "..", "..")), nil
}
