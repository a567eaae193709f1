package hardstop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Category
	}{
		{"empty", "   ", CategoryNone},
		{"plain answer", "About 3 days", CategoryNone},
		{"self harm keyword", "Sometimes I want to die", CategorySelfHarm},
		{"self harm upper case", "I'm SUICIDAL", CategorySelfHarm},
		{"apostrophe keyword", "I don't want to live like this", CategorySelfHarm},
		{"advice", "Should I take more ibuprofen?", CategoryMedicalAdvice},
		{"advice dose", "What dosage should I use", CategoryMedicalAdvice},
		{"prescribe", "can you prescribe something", CategoryMedicalAdvice},
		{"med change", "I want to change my medication", CategoryMedicationChange},
		{"switch", "Can we switch to a different pill", CategoryMedicationChange},
		{"profanity", "this is damn annoying", CategoryInappropriate},
		{"profanity is word bounded", "I have an assessment tomorrow", CategoryNone},
		{"classic is not profanity", "classic symptoms", CategoryNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.input).Category)
		})
	}
}

func TestDetectPriority(t *testing.T) {
	m := Detect("damn, should i take my pills or just kill myself")
	assert.Equal(t, CategorySelfHarm, m.Category)
	assert.True(t, m.EndsConversation)
	assert.Equal(t, SelfHarmMessage, m.Message)

	m = Detect("should i stop, can I change my dose")
	assert.Equal(t, CategoryMedicalAdvice, m.Category)
	assert.False(t, m.EndsConversation)
}

func TestDeflectionMessages(t *testing.T) {
	assert.Equal(t, MedicationChangeMessage, Detect("please increase my dose").Message)
	assert.Equal(t, InappropriateMessage, Detect("shit").Message)
	assert.False(t, Detect("fine").Matched())
	assert.True(t, Detect("fuck").Matched())
}
