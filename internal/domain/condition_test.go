package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := map[int]ConditionKind{
		0:  ConditionClear,
		1:  ConditionCloudy,
		2:  ConditionCloudy,
		3:  ConditionCloudy,
		45: ConditionFog,
		48: ConditionFog,
		51: ConditionDrizzle,
		53: ConditionDrizzle,
		55: ConditionDrizzle,
		61: ConditionRainy,
		63: ConditionRainy,
		65: ConditionRainy,
		71: ConditionSnow,
		73: ConditionSnow,
		75: ConditionSnow,
		95: ConditionThunderstorm,
		96: ConditionThunderstorm,
		99: ConditionThunderstorm,
	}

	for code, want := range cases {
		got := Classify(code)
		assert.Equal(t, want, got, "code %d", code)
		assert.NotEqual(t, ConditionUnknown, got, "code %d", code)
	}
}

func TestClassify_UnlistedCodesAreUnknown(t *testing.T) {
	for _, code := range []int{-1, 4, 17, 56, 66, 77, 80, 85, 100} {
		assert.Equal(t, ConditionUnknown, Classify(code), "code %d", code)
	}
}

func TestIconAndMessage_TotalOverKinds(t *testing.T) {
	seenIcons := map[IconKey]ConditionKind{}
	for _, kind := range ConditionKinds {
		icon := IconFor(kind)
		assert.NotEmpty(t, icon, "icon for %s", kind)
		assert.NotEmpty(t, MessageFor(kind), "message for %s", kind)

		if prev, dup := seenIcons[icon]; dup {
			t.Errorf("icon %q shared by %s and %s", icon, prev, kind)
		}
		seenIcons[icon] = kind
	}
}

func TestIconAndMessage_UnknownDefault(t *testing.T) {
	assert.Equal(t, IconUnknown, IconFor(ConditionUnknown))
	assert.Equal(t, IconUnknown, IconFor(ConditionKind("Hail")))
	assert.Equal(t, MessageFor(ConditionUnknown), MessageFor(ConditionKind("")))
}

func TestMessageFor_Rainy(t *testing.T) {
	assert.Equal(t, "It is forecasted to rain. Don't forget your umbrella!", MessageFor(ConditionRainy))
}
