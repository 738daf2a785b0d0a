package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinPrefix 标记内置字体，例如 "builtin:go-regular"。
const BuiltinPrefix = "builtin:"

// DefaultBuiltin 是离线场景下的默认字体。
const DefaultBuiltin = "go-regular"

var builtins = map[string][]byte{
	"go-regular":                goregular.TTF,
	"go-bold":                   gobold.TTF,
	"go-italic":                 goitalic.TTF,
	"go-bolditalic":             gobolditalic.TTF,
	"go-medium":                 gomedium.TTF,
	"go-mono":                   gomono.TTF,
	"latin-modern-roman":        lmroman10regular.TTF,
	"latin-modern-roman-bold":   lmroman10bold.TTF,
	"latin-modern-roman-italic": lmroman10italic.TTF,
}

// Builtin 返回内置字体的字节数据，name 可写为 "builtin:go-regular" 或直接 "go-regular"。
func Builtin(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, BuiltinPrefix))
	data, ok := builtins[key]
	if !ok {
		return nil, &ResolutionError{
			Family:    name,
			Available: BuiltinNames(),
			Err:       fmt.Errorf("%w: 不是内置字体", ErrFamilyNotFound),
		}
	}
	return data, nil
}

// BuiltinNames 返回排好序的内置字体名。
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
