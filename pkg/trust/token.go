// Package trust generates and decodes the trusted-properties token, a signed
// list of the field names a form rendered. The receiving action only accepts
// submitted arguments that appear in the token.
package trust

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/internal/fieldpath"
)

// ErrInvalidArgumentForHashGeneration is returned when the field names of a
// form cannot be arranged into a consistent property tree.
var ErrInvalidArgumentForHashGeneration = errors.New("trust: invalid argument for hash generation")

// ErrInvalidToken is returned when a token verifies but does not decode.
var ErrInvalidToken = errors.New("trust: invalid trusted properties token")

// Hasher signs and verifies token payloads. *security.HashService satisfies it.
type Hasher interface {
	AppendHMAC(value string) string
	ValidateAndStripHMAC(signed string) (string, error)
}

// Service generates and decodes trusted-properties tokens.
type Service struct {
	hasher Hasher
}

// NewService returns a Service signing with hasher.
func NewService(hasher Hasher) *Service {
	return &Service{hasher: hasher}
}

// GenerateTrustedPropertiesToken arranges the rendered field names into a
// property tree, narrows it to the subtree under prefix when prefix is set,
// and returns its signed JSON encoding.
func (s *Service) GenerateTrustedPropertiesToken(fieldNames []string, prefix string) (string, error) {
	if s == nil || s.hasher == nil {
		return "", fmt.Errorf("%w: no hasher configured", ErrInvalidArgumentForHashGeneration)
	}
	tree, err := BuildTree(fieldNames)
	if err != nil {
		return "", err
	}
	var selected map[string]any = tree
	if prefix != "" {
		selected, _ = tree[prefix].(map[string]any)
		if selected == nil {
			selected = map[string]any{}
		}
	}
	payload, err := json.Marshal(selected)
	if err != nil {
		return "", fmt.Errorf("trust: encode properties: %w", err)
	}
	return s.hasher.AppendHMAC(string(payload)), nil
}

// Decode verifies a token and returns the property tree it carries.
func (s *Service) Decode(token string) (Properties, error) {
	if s == nil || s.hasher == nil {
		return Properties{}, fmt.Errorf("%w: no hasher configured", ErrInvalidToken)
	}
	payload, err := s.hasher.ValidateAndStripHMAC(token)
	if err != nil {
		return Properties{}, fmt.Errorf("trust: verify token: %w", err)
	}
	tree := map[string]any{}
	if err := json.Unmarshal([]byte(payload), &tree); err != nil {
		return Properties{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Properties{tree: tree}, nil
}

// ListLeaf marks a node rendered as "name[]". It trusts every element of a
// submitted list.
const ListLeaf = "[]"

// BuildTree arranges bracketed field names into nested maps whose leaves
// are 1. A trailing "[]" turns its parent into a ListLeaf.
func BuildTree(fieldNames []string) (map[string]any, error) {
	tree := map[string]any{}
	for _, name := range fieldNames {
		if err := insert(tree, name); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func insert(tree map[string]any, name string) error {
	parts := fieldpath.Split(name)
	current := tree
	for i, part := range parts {
		if part == "" {
			return fmt.Errorf("%w: field %q uses [] before its last segment", ErrInvalidArgumentForHashGeneration, name)
		}
		rest := parts[i+1:]
		existing, exists := current[part]
		switch {
		case len(rest) == 0:
			if exists && !isLeaf(existing) {
				return fmt.Errorf("%w: field %q is declared as string but collides with a previous field declared as array", ErrInvalidArgumentForHashGeneration, name)
			}
			current[part] = 1
			return nil
		case len(rest) == 1 && rest[0] == "":
			if exists && isLeaf(existing) {
				return fmt.Errorf("%w: field %q is declared as array but collides with a previous field declared as string", ErrInvalidArgumentForHashGeneration, name)
			}
			current[part] = ListLeaf
			return nil
		}
		if !exists {
			child := map[string]any{}
			current[part] = child
			current = child
			continue
		}
		if existing == ListLeaf {
			return nil
		}
		child, isMap := existing.(map[string]any)
		if !isMap {
			return fmt.Errorf("%w: field %q is declared as array but collides with a previous field declared as string", ErrInvalidArgumentForHashGeneration, name)
		}
		current = child
	}
	return nil
}

func isLeaf(node any) bool {
	if node == ListLeaf {
		return false
	}
	_, isMap := node.(map[string]any)
	return !isMap
}
