package classifier

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godilite/feedback-insights/internal/feedback"
)

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"Verspätung":  "verspatung",
		"Mülleimer":   "mulleimer",
		"DAÑO":        "daño",
		"Ñandú":       "ñandu",
		"Calefacción": "calefaccion",
		"":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestClassify(t *testing.T) {
	t.Run("english", func(t *testing.T) {
		c := New("en")
		assert.Equal(t, []string{"hygiene"}, c.Classify("Dirty toilets"))
		assert.Equal(t, []string{"delays"}, c.Classify("Late train"))
		assert.Nil(t, c.Classify("xyz"))
		assert.Nil(t, c.Classify(""))
	})

	t.Run("german with accents", func(t *testing.T) {
		c := New("de")
		assert.Equal(t, []string{"delays", "infrastructure"}, c.Classify("Verspätung und kaputte Tür"))
		assert.Equal(t, []string{"positive"}, c.Classify("Vielen Dank für die schnelle Hilfe"))
		assert.Contains(t, c.Classify("Lob an den Zugbegleiter"), "positive")
	})

	t.Run("spanish keeps enye", func(t *testing.T) {
		c := New("es")
		assert.Equal(t, []string{"infrastructure"}, c.Classify("Daño en la puerta"))
	})

	t.Run("tags are known categories in vocabulary order", func(t *testing.T) {
		tags := New("en").Classify("Great staff but the seat was dirty and the door broken, late again")
		require.NotEmpty(t, tags)
		for _, tag := range tags {
			assert.True(t, feedback.IsKnown(tag), tag)
		}
		assert.Equal(t, []string{"service", "delays", "infrastructure", "hygiene", "comfort", "positive"}, tags)
	})
}

func TestNewFallsBackToEnglish(t *testing.T) {
	assert.Equal(t, "en", New("fr").Language())
	assert.Equal(t, "de", New(" DE ").Language())
	assert.ElementsMatch(t, []string{"de", "en", "es"}, Languages())
}

func TestScore(t *testing.T) {
	assert.Equal(t, 5, New("en").Score("Great, thanks!"))
	assert.Equal(t, -1, New("en").Score("late"))
	assert.Equal(t, 0, New("en").Score("lateness"))
	assert.Equal(t, -3, New("de").Score("Nie wieder!"))
}

func TestKeywords(t *testing.T) {
	found := New("en").Keywords("late and dirty")
	assert.Equal(t, []string{"late"}, found[feedback.Delays])
	assert.Equal(t, []string{"dirty"}, found[feedback.Hygiene])
}

func TestContainsPhrase(t *testing.T) {
	assert.True(t, containsPhrase("the pa system broke", "pa system"))
	assert.True(t, containsPhrase("lob!", "lob"))
	assert.False(t, containsPhrase("lobby", "lob"))
}

func TestClassifyConcurrent(t *testing.T) {
	c := New("de")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"delays"}, c.Classify("Verspätung"))
		}()
	}
	wg.Wait()
}
