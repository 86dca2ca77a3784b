package errortypes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadCode(t *testing.T) {
	tests := []struct {
		description string
		err         error
		want        ErrorCode
	}{
		{
			description: "bad config",
			err:         &BadConfig{Message: "missing appId"},
			want:        AdapterConfigurationError,
		},
		{
			description: "wrapped no fill",
			err:         fmt.Errorf("vungle: %w", &NoFill{Message: "no serve"}),
			want:        NetworkNoFill,
		},
		{
			description: "network failure without code",
			err:         &NetworkFailure{Message: "boom"},
			want:        NetworkError,
		},
		{
			description: "network failure with code",
			err:         &NetworkFailure{Message: "offline", ErrorCode: NoConnection},
			want:        NoConnection,
		},
		{
			description: "plain error",
			err:         errors.New("plain"),
			want:        Unspecified,
		},
		{
			description: "nil error",
			err:         nil,
			want:        Unspecified,
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, ReadCode(test.err), test.description)
	}
}

func TestErrorCodeString(t *testing.T) {
	assert.Equal(t, "NETWORK_NO_FILL", NetworkNoFill.String())
	assert.Equal(t, "NETWORK_TIMEOUT", NetworkTimeout.String())
	assert.Equal(t, "UNSPECIFIED", ErrorCode(-4).String())
}

func TestSeverityFilters(t *testing.T) {
	fatal := &Timeout{Message: "init timed out"}
	warning := &Warning{Message: "consent ignored", WarningCode: AdapterConfigurationError}
	plain := errors.New("plain")

	errs := []error{fatal, warning, plain}

	assert.True(t, ContainsFatalError(errs))
	assert.False(t, ContainsFatalError([]error{warning}))
	assert.Equal(t, []error{fatal, plain}, FatalOnly(errs))
	assert.Equal(t, []error{warning}, WarningOnly(errs))
	assert.True(t, IsWarning(fmt.Errorf("wrapped: %w", warning)))
}

func TestAggregateErrors(t *testing.T) {
	assert.Equal(t, "", NewAggregateErrors("validation errors", nil).Error())

	one := NewAggregateErrors("validation errors", []error{errors.New("a")})
	assert.Equal(t, "validation errors (1 error):\n  1: a\n", one.Error())

	two := NewAggregateErrors("validation errors", []error{errors.New("a"), errors.New("b")})
	assert.Equal(t, "validation errors (2 errors):\n  1: a\n  2: b\n", two.Error())
}

func TestAggregateErrorsUnwrap(t *testing.T) {
	badConfig := &BadConfig{Message: "vungle: missing appId"}
	agg := NewAggregateErrors("network build errors", []error{errors.New("plain"), badConfig})

	var target *BadConfig
	assert.True(t, errors.As(agg, &target))
	assert.Same(t, badConfig, target)
	assert.True(t, errors.Is(agg, badConfig))
	assert.Equal(t, AdapterConfigurationError, ReadCode(agg))
	assert.Equal(t, Unspecified, ReadCode(NewAggregateErrors("validation errors", nil)))
}
