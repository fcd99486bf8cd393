package interaction_test

import (
	"encoding/json"
	"testing"
	"time"

	"marketing-insights-be/pkg/interaction"
	"marketing-insights-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestKeyString(t *testing.T) {
	assert.Equal(t, "ControllerTest_Summaries", summariesKey.String())
	assert.Equal(t, interaction.Namespace("ControllerTest"), summariesKey.Namespace())
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	assert.Panics(t, func() { interaction.NewNamespace("ControllerTest") })
	assert.Panics(t, func() { interaction.NewKey[string](testNS, "Term") })
	assert.Panics(t, func() { interaction.NewKey[string](interaction.Namespace("Unregistered"), "X") })
	assert.Panics(t, func() { interaction.NewNamespace("") })
}

func TestKeyUndecodableValueIsAbsent(t *testing.T) {
	sess := store.NewSession("s", time.Now())
	sess.PutRaw(termKey.String(), json.RawMessage(`{"not":"a list"}`))

	_, ok, err := termKey.Lookup(sess)
	assert.False(t, ok)
	assert.Error(t, err)

	assert.False(t, termKey.Present(sess))
	assert.Equal(t, []string{"fallback"}, termKey.GetOr(sess, []string{"fallback"}))
}

func TestBatchKeepsFirstWriteOrder(t *testing.T) {
	b := interaction.NewBatch()
	b.PutRaw("b", json.RawMessage(`1`))
	b.PutRaw("a", json.RawMessage(`2`))
	b.PutRaw("b", json.RawMessage(`3`))

	assert.Equal(t, []string{"b", "a"}, b.Keys())
	assert.Equal(t, 2, b.Len())
}
