package main

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/qrprofile/internal/profile"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

var ada = []string{"--first", "Ada", "--last", "Lovelace", "--email", "ada@x.com"}

func TestVCardCommand(t *testing.T) {
	out, err := execute(t, append([]string{"vcard"}, ada...)...)
	require.NoError(t, err)

	assert.Contains(t, out, "FN:Ada Lovelace\r\n")
	assert.Contains(t, out, "EMAIL:ada@x.com\r\n")
	assert.NotContains(t, out, "TEL")
}

func TestVCardCommand_OptionalFlags(t *testing.T) {
	args := append([]string{"vcard", "--phone", "+44 20 7946 0000", "--github", "https://github.com/ada"}, ada...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "TEL;TYPE=CELL:+44 20 7946 0000\r\n")
	assert.Contains(t, out, "URL;TYPE=GitHub:https://github.com/ada\r\n")
	assert.NotContains(t, out, "LinkedIn")
}

func TestBase64Command(t *testing.T) {
	out, err := execute(t, append([]string{"base64", "--size", "3"}, ada...)...)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	out, err = execute(t, append([]string{"base64", "--data-uri"}, ada...)...)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,"))
}

func TestPNGCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ada.png")
	_, err := execute(t, append([]string{"png", "-o", path, "--level", "H"}, ada...)...)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	require.NoError(t, err)
}

func TestCommands_Errors(t *testing.T) {
	_, err := execute(t, "vcard", "--first", "Ada")
	assert.Error(t, err)

	_, err = execute(t, append([]string{"vcard", "--email", "not-an-email"}, ada[:4]...)...)
	var validationErr *profile.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "email")

	_, err = execute(t, append([]string{"base64", "--level", "X"}, ada...)...)
	assert.Error(t, err)
}
