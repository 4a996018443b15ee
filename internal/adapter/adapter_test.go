package adapter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	gpt := Defaults(TypeChatGPT)
	require.NotNil(t, gpt.ChatGPT)
	assert.Nil(t, gpt.Apps)
	assert.True(t, gpt.ChatGPT.Enabled)
	assert.Equal(t, IntentPrompt, gpt.ChatGPT.IntentHandling)
	assert.True(t, gpt.ChatGPT.WidgetPrefersBorder)
	assert.Nil(t, gpt.ChatGPT.WidgetDescription)
	assert.Nil(t, gpt.ChatGPT.WidgetCSP)
	assert.True(t, gpt.Active())

	apps := Defaults(TypeGenericApps)
	require.NotNil(t, apps.Apps)
	assert.True(t, apps.Apps.Enabled)
	assert.True(t, apps.Active())

	none := Defaults(Type("bogus"))
	assert.Equal(t, TypeNone, none.Type)
	assert.False(t, none.Active())

	var nilCfg *Config
	assert.False(t, nilCfg.Active())
}

func TestParseType(t *testing.T) {
	testCases := []struct {
		input    string
		expected Type
		wantErr  bool
	}{
		{"", TypeNone, false},
		{"none", TypeNone, false},
		{"chatgpt", TypeChatGPT, false},
		{"appsSdk", TypeChatGPT, false},
		{"apps", TypeGenericApps, false},
		{"mcp-apps", TypeGenericApps, false},
		{"openai", TypeNone, true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseType(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSetChatGPTFields(t *testing.T) {
	cfg := Defaults(TypeChatGPT)

	require.NoError(t, cfg.Set(FieldIntentHandling, "tool"))
	assert.Equal(t, IntentTool, cfg.ChatGPT.IntentHandling)

	require.NoError(t, cfg.Set(FieldWidgetDescription, "Shows the cart"))
	require.NotNil(t, cfg.ChatGPT.WidgetDescription)
	assert.Equal(t, "Shows the cart", *cfg.ChatGPT.WidgetDescription)

	require.NoError(t, cfg.Set(FieldWidgetDescription, ""))
	assert.Nil(t, cfg.ChatGPT.WidgetDescription)

	require.NoError(t, cfg.Set(FieldConnectDomains, []interface{}{"https://api.test", "https://api.test"}))
	require.NotNil(t, cfg.ChatGPT.WidgetCSP)
	assert.Equal(t, []string{"https://api.test"}, cfg.ChatGPT.WidgetCSP.ConnectDomains)

	require.NoError(t, cfg.Set(FieldResourceDomains, "https://cdn.test, https://img.test"))
	assert.Equal(t, []string{"https://cdn.test", "https://img.test"}, cfg.ChatGPT.WidgetCSP.ResourceDomains)

	require.NoError(t, cfg.Set(FieldConnectDomains, nil))
	require.NoError(t, cfg.Set(FieldResourceDomains, []string{}))
	assert.Nil(t, cfg.ChatGPT.WidgetCSP)

	require.NoError(t, cfg.Set(FieldEnabled, false))
	assert.False(t, cfg.Active())
}

func TestSetRejectsMismatches(t *testing.T) {
	cfg := Defaults(TypeChatGPT)
	before := cfg.Clone()

	var fe *FieldError
	err := cfg.Set(FieldIntentHandling, "maybe")
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, FieldIntentHandling, fe.Field)

	assert.Error(t, cfg.Set(FieldEnabled, "yes"))
	assert.Error(t, cfg.Set(Field("nonsense"), true))
	assert.True(t, before.Equal(cfg))

	apps := Defaults(TypeGenericApps)
	assert.Error(t, apps.Set(FieldIntentHandling, "tool"))
	require.NoError(t, apps.Set(FieldEnabled, false))
	assert.False(t, apps.Active())

	none := None()
	assert.Error(t, none.Set(FieldEnabled, true))
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Defaults(TypeChatGPT)
	require.NoError(t, cfg.Set(FieldConnectDomains, []string{"https://a.test"}))
	require.NoError(t, cfg.Set(FieldWidgetDescription, "desc"))

	clone := cfg.Clone()
	require.True(t, clone.Equal(cfg))

	clone.ChatGPT.WidgetCSP.ConnectDomains[0] = "https://changed.test"
	*clone.ChatGPT.WidgetDescription = "changed"
	assert.Equal(t, "https://a.test", cfg.ChatGPT.WidgetCSP.ConnectDomains[0])
	assert.Equal(t, "desc", *cfg.ChatGPT.WidgetDescription)
	assert.False(t, clone.Equal(cfg))
}

func TestJSONRoundTrip(t *testing.T) {
	cfg := Defaults(TypeChatGPT)
	require.NoError(t, cfg.Set(FieldIntentHandling, "tool"))
	require.NoError(t, cfg.Set(FieldResourceDomains, []string{"https://cdn.test"}))

	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"chatgpt"`)
	assert.Contains(t, string(data), `"intentHandling":"tool"`)

	var back Config
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, cfg.Equal(back))

	data, err = json.Marshal(None())
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"none"}`, string(data))

	require.NoError(t, json.Unmarshal([]byte(`{"type":"apps"}`), &back))
	assert.True(t, back.Active())

	assert.Error(t, json.Unmarshal([]byte(`{"type":"chatgpt","intentHandling":"shout"}`), &back))
}
