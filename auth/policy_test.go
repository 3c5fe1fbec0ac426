package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommon(t *testing.T) {
	assert.True(t, IsCommon("password"))
	assert.True(t, IsCommon("123456"))
	assert.True(t, IsCommon("senha"))
	assert.False(t, IsCommon("Password"))
	assert.False(t, IsCommon("CorrectHorse"))
}

func TestEvaluateCommonStopsEarly(t *testing.T) {
	a := DefaultPolicy().Evaluate(context.Background(), "password")
	assert.True(t, a.Common)
	assert.Empty(t, a.Warnings)
}

func TestEvaluateWeakPassphraseWarns(t *testing.T) {
	a := DefaultPolicy().Evaluate(context.Background(), "abc")
	assert.False(t, a.Common)
	assert.Less(t, a.Score, DefaultMinScore)
	assert.Contains(t, a.Warnings, "add a digit")
	assert.Contains(t, a.Warnings, "add an uppercase letter")
}

func TestEvaluateStrongPassphrase(t *testing.T) {
	a := DefaultPolicy().Evaluate(context.Background(), "v9#Lq!zT4m@Rw8pX")
	assert.False(t, a.Common)
	assert.GreaterOrEqual(t, a.Score, DefaultMinScore)
	assert.Empty(t, a.Warnings)
}
