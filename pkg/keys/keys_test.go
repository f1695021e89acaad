package keys_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/gridpick/pkg/keys"
)

func TestKeyBind_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		kb   keys.KeyBind
		want string
	}{
		"single key": {
			kb:   keys.NewBind("quit", keys.New("q")),
			want: "q",
		},
		"alias and hidden": {
			kb: keys.NewBind("quit",
				keys.New("q"),
				keys.New("ctrl+c", keys.Hidden()),
				keys.New("esc", keys.WithAlias("⎋")),
			),
			want: "q/⎋",
		},
		"all hidden": {
			kb:   keys.NewBind("secret", keys.New("x", keys.Hidden())),
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.kb.String())
		})
	}
}

func TestKeyBind_Match(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("quit", keys.New("q"), keys.New("ctrl+c", keys.Hidden()))

	assert.True(t, kb.Match("q"))
	assert.True(t, kb.Match("ctrl+c"))
	assert.False(t, kb.Match("Q"))

	var nilBind *keys.KeyBind
	assert.False(t, nilBind.Match("q"))
}

func TestKeyBind_AddKey(t *testing.T) {
	t.Parallel()

	kb := keys.NewBind("copy", keys.New("y"))
	kb.AddKey(keys.New("y"))
	kb.AddKey(keys.New("c"))

	assert.Equal(t, "y/c", kb.String())
}

func TestSetDefaultBind(t *testing.T) {
	t.Parallel()

	def := keys.NewBind("toggle padding", keys.New("p"))

	var unset *keys.KeyBind
	keys.SetDefaultBind(&unset, def)
	require.NotNil(t, unset)
	assert.Equal(t, def, *unset)

	partial := &keys.KeyBind{Keys: []keys.Key{keys.New("P")}}
	keys.SetDefaultBind(&partial, def)
	assert.Equal(t, "toggle padding", partial.Description)
	assert.Equal(t, "P", partial.String())

	noKeys := &keys.KeyBind{Description: "pad"}
	keys.SetDefaultBind(&noKeys, def)
	assert.Equal(t, "pad", noKeys.Description)
	assert.Equal(t, "p", noKeys.String())
}

func TestValidateBinds(t *testing.T) {
	t.Parallel()

	quit := keys.NewBind("quit", keys.New("q"), keys.New("esc"))
	help := keys.NewBind("help", keys.New("?"))
	cancel := keys.NewBind("cancel", keys.New("esc"))

	require.NoError(t, keys.ValidateBinds(&quit, &help, nil))

	err := keys.ValidateBinds(&quit, &help, &cancel)
	require.ErrorIs(t, err, keys.ErrDuplicateKey)
	assert.Contains(t, err.Error(), `"esc" is bound to "quit" and "cancel"`)
}

func TestShortHelp(t *testing.T) {
	t.Parallel()

	quit := keys.NewBind("quit", keys.New("q"))
	pad := keys.NewBind("padding", keys.New("p"))
	hidden := keys.NewBind("debug", keys.New("d", keys.Hidden()))

	got := keys.ShortHelp(" • ", &quit, nil, &hidden, &pad)
	assert.Equal(t, "q quit • p padding", got)
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	quit := keys.NewBind("quit", keys.New("q"), keys.New("esc"))
	help := keys.NewBind("toggle help", keys.New("?"))
	pad := keys.NewBind("toggle padding", keys.New("p"))
	yank := keys.NewBind("copy geometry to the clipboard", keys.New("y"))

	var r keys.Renderer
	assert.Empty(t, r.Render(80))

	r.AddColumn(&quit, &help)
	r.AddColumn()
	r.AddColumn(&pad, &yank)

	out := r.Render(60)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "q/esc  quit")
	assert.Contains(t, lines[0], "p  toggle padding")
	assert.Contains(t, lines[1], "?      toggle help")
	assert.Contains(t, lines[1], "…")

	for _, l := range lines {
		assert.LessOrEqual(t, len([]rune(l)), 60)
	}
}
