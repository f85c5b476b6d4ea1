package snapshot

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Matches evaluates a mapping of dot-path -> regex pattern against a session.
// Every pair must match for the session to match (logical AND, short-circuit);
// an empty mapping matches every session.
//
// Each pattern is evaluated case-insensitively and anchored at the start of
// the stringified field value: "alec" matches "Alec's MacBook Pro" but "pro"
// does not. An unresolvable path is an error, not a non-match, since it
// indicates a filter-configuration bug rather than a data-quality issue.
func Matches(fields map[string]string, session *PlaybackSession) (bool, error) {
	for path, pattern := range fields {
		value, err := resolvePath(session, path)
		if err != nil {
			return false, err
		}

		re, err := regexp.Compile(`(?i)\A(?:` + pattern + `)`)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q for %s: %w", pattern, path, err)
		}

		if !re.MatchString(value) {
			return false, nil
		}
	}

	return true, nil
}

// resolvePath walks nested fields of the session by their upstream JSON names
// (e.g. "PlayState.IsPaused") and returns the stringified leaf value.
// A nil optional leaf stringifies as the empty string.
func resolvePath(session *PlaybackSession, path string) (string, error) {
	v := reflect.ValueOf(session).Elem()

	for _, part := range strings.Split(path, ".") {
		for v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return "", fmt.Errorf("cannot resolve filter path %q: %s is null", path, part)
			}
			v = v.Elem()
		}

		if v.Kind() != reflect.Struct {
			return "", fmt.Errorf("cannot resolve filter path %q: %s is not a nested field", path, part)
		}

		field, ok := fieldByJSONName(v, part)
		if !ok {
			return "", fmt.Errorf("cannot resolve filter path %q: unknown field %s", path, part)
		}
		v = field
	}

	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}

	return fmt.Sprintf("%v", v.Interface()), nil
}

// fieldByJSONName finds the struct field whose JSON tag name equals name,
// falling back to the Go field name for untagged fields.
func fieldByJSONName(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		tagName := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			if parts := strings.SplitN(tag, ",", 2); parts[0] != "" {
				tagName = parts[0]
			}
		}

		if tagName == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}
