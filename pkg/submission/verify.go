// Package submission verifies the generated hidden fields of a submitted
// form and reduces the submitted arguments to the properties the form
// rendered.
package submission

import (
	"encoding/base64"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formbind/pkg/form"
	"github.com/goliatone/go-formbind/pkg/trust"
)

var (
	ErrMissingReferrer          = errors.New("submission: referrer fields missing")
	ErrMissingTrustedProperties = errors.New("submission: trusted properties missing")
	ErrReferrerMismatch         = errors.New("submission: referrer fields do not match the signed request")
	ErrInvalidReferrer          = errors.New("submission: referrer could not be decoded")
)

const (
	referrerKey  = form.ReferrerField
	trustedKey   = form.TrustedPropertiesField
	requestKey   = "@request"
	argumentsKey = "arguments"
)

// Hasher verifies and signs with the secret the form was rendered with.
// *security.HashService satisfies it.
type Hasher interface {
	ValidateAndStripHMAC(signed string) (string, error)
	AppendHMAC(value string) string
}

// Submission is a verified form submission.
type Submission struct {
	// Referrer identifies the action that rendered the form.
	Referrer form.ActionRequest
	// ReferrerArguments are the arguments the rendering action received.
	ReferrerArguments map[string]any
	// Trusted lists the properties the form rendered.
	Trusted trust.Properties
	// Arguments are the submitted arguments without the generated hidden
	// fields, reduced to the trusted properties.
	Arguments map[string]any
	// Raw are the submitted arguments under the namespace, untouched.
	Raw map[string]any
}

// Service verifies submissions.
type Service struct {
	hasher Hasher
	tokens *trust.Service
}

// NewService returns a Service verifying with hasher.
func NewService(hasher Hasher) *Service {
	return &Service{hasher: hasher, tokens: trust.NewService(hasher)}
}

// Verify checks the hidden fields of a submission. args are the parsed
// request arguments; when prefix is not empty only args[prefix] is read.
func (s *Service) Verify(args map[string]any, prefix string) (*Submission, error) {
	scoped := args
	if prefix != "" {
		scoped, _ = args[prefix].(map[string]any)
	}
	if scoped == nil {
		return nil, ErrMissingReferrer
	}

	referrer, ok := scoped[referrerKey].(map[string]any)
	if !ok {
		return nil, ErrMissingReferrer
	}
	action, err := s.decodeRequest(referrer)
	if err != nil {
		return nil, err
	}
	referrerArgs, err := s.decodeArguments(referrer)
	if err != nil {
		return nil, err
	}

	token, ok := scoped[trustedKey].(string)
	if !ok || token == "" {
		return nil, ErrMissingTrustedProperties
	}
	trusted, err := s.tokens.Decode(token)
	if err != nil {
		return nil, fmt.Errorf("submission: %w", err)
	}

	remaining := make(map[string]any, len(scoped))
	for key, value := range scoped {
		if key == referrerKey || key == trustedKey {
			continue
		}
		remaining[key] = value
	}

	return &Submission{
		Referrer:          action,
		ReferrerArguments: referrerArgs,
		Trusted:           trusted,
		Arguments:         trusted.Filter(remaining),
		Raw:               scoped,
	}, nil
}

func (s *Service) decodeRequest(referrer map[string]any) (form.ActionRequest, error) {
	signed, _ := referrer[requestKey].(string)
	if signed == "" {
		return form.ActionRequest{}, ErrMissingReferrer
	}
	payload, err := s.hasher.ValidateAndStripHMAC(signed)
	if err != nil {
		return form.ActionRequest{}, fmt.Errorf("submission: verify referrer request: %w", err)
	}
	var action form.ActionRequest
	if err := json.Unmarshal([]byte(payload), &action); err != nil {
		return form.ActionRequest{}, fmt.Errorf("%w: %v", ErrInvalidReferrer, err)
	}

	plain := form.ActionRequest{
		Extension:  stringValue(referrer["@extension"]),
		Controller: stringValue(referrer["@controller"]),
		Action:     stringValue(referrer["@action"]),
	}
	if plain != action {
		return form.ActionRequest{}, ErrReferrerMismatch
	}
	return action, nil
}

func (s *Service) decodeArguments(referrer map[string]any) (map[string]any, error) {
	signed, _ := referrer[argumentsKey].(string)
	if signed == "" {
		return nil, ErrMissingReferrer
	}
	encoded, err := s.hasher.ValidateAndStripHMAC(signed)
	if err != nil {
		return nil, fmt.Errorf("submission: verify referrer arguments: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReferrer, err)
	}
	args := map[string]any{}
	if err := json.Unmarshal(raw, &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReferrer, err)
	}
	return args, nil
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
