package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksenieor-creator/telegram-bot/internal/wizard"
)

func TestWizardStepAllowed(t *testing.T) {
	b := &Bot{}

	steps := map[string]wizard.State{
		"date":    wizard.StateSelectDate,
		"kind":    wizard.StateSelectKind,
		"dur":     wizard.StateSelectDuration,
		"tariff":  wizard.StateSelectTariff,
		"confirm": wizard.StateConfirm,
	}

	for action, st := range steps {
		b.flow.State = st
		assert.True(t, b.wizardStepAllowed(action), "%s из %s", action, st)
	}

	// кнопка с устаревшего экрана не перепрыгивает конвейер
	b.flow.State = wizard.StateSelectKind
	assert.False(t, b.wizardStepAllowed("dur"))
	assert.False(t, b.wizardStepAllowed("tariff"))
	assert.False(t, b.wizardStepAllowed("confirm"))

	b.flow.State = wizard.StateNone
	for action := range steps {
		assert.False(t, b.wizardStepAllowed(action), action)
	}

	assert.False(t, b.wizardStepAllowed("panel"))
}
