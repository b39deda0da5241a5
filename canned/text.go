package canned

import (
	"strings"

	"github.com/shipq/typegen/generator"
	"github.com/shipq/typegen/rng"
)

const (
	asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	punctuation  = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	whitespace   = " \t\n\r\x0b\x0c"
	printable    = "0123456789" + asciiLetters + punctuation + whitespace
)

var (
	colors = []any{
		"red", "green", "blue", "orange", "purple", "cyan", "magenta",
		"magenta", "yellow", "gold", "silver", "black", "white",
	}
	names = []any{
		"bob", "alice", "jennifer", "john", "mary", "jane", "sally",
		"fred", "dan", "alex", "margaret", "vincent", "timothy", "samuel",
	}
	things = []any{
		"shirt", "sneaker", "shoe", "apple", "banana", "orange", "tea",
		"sandwich", "tennis", "football", "basketball", "fork", "table", "computer",
	}
	fileExtensions = []any{".jpg", ".png", ".gif", ".txt", ".go", ".ts", ".c", ".obj", ".ini", ""}
	pathSegments   = []any{
		".", "..", "tmp", "var", "usr", "Home", "data", "volumes", "etc",
		"tests", "src", "db", "conf", "events", "utils", "app", "versions", "models",
	}
)

// Words yields readable color-name-thing strings such as "gold-alice-fork".
func Words(src *rng.Source) generator.Generator {
	parts := rng.Zip(rng.OneOf(src, colors), rng.OneOf(src, names), rng.OneOf(src, things))
	return rng.Map(parts, func(v any) any {
		p := v.([]any)
		return p[0].(string) + "-" + p[1].(string) + "-" + p[2].(string)
	})
}

// PrintableStrings yields up to six distinct printable ASCII characters,
// whitespace included.
func PrintableStrings(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		return string(rng.Sample(r, []byte(printable), r.IntRange(0, 6)))
	})
}

// Bytes yields the bytes of printable strings.
func Bytes(src *rng.Source) generator.Generator {
	return rng.Map(PrintableStrings(src), func(v any) any { return []byte(v.(string)) })
}

// SimpleSymbols yields five distinct letters or underscores, usable as
// identifiers.
func SimpleSymbols(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		return string(rng.Sample(r, []byte(asciiLetters+"_"), 5))
	})
}

const (
	identStart = asciiLetters + "_"
	identBody  = identStart + "0123456789"
)

// MaxIdentifierLength bounds the length of Identifiers.
const MaxIdentifierLength = 16

// Identifiers yields names valid in most languages and SQL dialects: a
// letter or underscore followed by letters, digits or underscores.
func Identifiers(src *rng.Source) generator.Generator {
	return rng.Draws(src, func(r *rng.Rand) any {
		b := make([]byte, r.IntRange(1, MaxIdentifierLength))
		b[0] = identStart[r.Intn(len(identStart))]
		for i := 1; i < len(b); i++ {
			b[i] = identBody[r.Intn(len(identBody))]
		}
		return string(b)
	})
}

// FileExtensions yields a common extension, or none.
func FileExtensions(src *rng.Source) generator.Generator {
	return rng.OneOf(src, fileExtensions)
}

// PathSegments yields a common directory name or a hex UUID.
func PathSegments(src *rng.Source) generator.Generator {
	return rng.OneOf(src, pathSegments, UUIDHexes(src))
}

// FileNames yields a path segment with an extension.
func FileNames(src *rng.Source) generator.Generator {
	parts := rng.Zip(PathSegments(src), FileExtensions(src))
	return rng.Map(parts, func(v any) any {
		p := v.([]any)
		return p[0].(string) + p[1].(string)
	})
}

// FilePaths yields relative or absolute slash-separated paths of one to
// eight segments.
func FilePaths(src *rng.Source) generator.Generator {
	leads := rng.OneOf(src, []any{"", "/"})
	segments := PathSegments(src)
	extensions := FileExtensions(src)
	return rng.GeneratorFunc(func() (any, error) {
		lead, err := leads.Next()
		if err != nil {
			return nil, err
		}
		r, err := src.Next()
		if err != nil {
			return nil, err
		}
		parts := make([]string, r.IntRange(1, 8))
		for i := range parts {
			s, err := segments.Next()
			if err != nil {
				return nil, err
			}
			parts[i] = s.(string)
		}
		ext, err := extensions.Next()
		if err != nil {
			return nil, err
		}
		return lead.(string) + strings.Join(parts, "/") + ext.(string), nil
	})
}
