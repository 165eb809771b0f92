package share

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/redmonkez12/qrprofile/internal/logging"
	"github.com/redmonkez12/qrprofile/internal/profile"
	"github.com/redmonkez12/qrprofile/internal/qrcode"
	"github.com/redmonkez12/qrprofile/internal/qrimage"
	"github.com/redmonkez12/qrprofile/internal/vcard"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func scanPNG(t *testing.T, b64 string) string {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, map[gozxing.DecodeHintType]interface{}{gozxing.DecodeHintType_PURE_BARCODE: true})
	require.NoError(t, err)
	return result.GetText()
}

func newPipeline(cache Cache) *Pipeline {
	return NewPipeline(qrcode.Medium, 0, cache, logging.Discard())
}

var ada = vcard.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"}

func TestGenerateContactCode_AdaScenario(t *testing.T) {
	ctx := context.Background()
	dir := profile.NewDirectory()

	p, err := dir.Create(ctx, profile.Profile{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	b64, err := newPipeline(nil).GenerateContactCode(ctx, ada, 0)
	require.NoError(t, err)
	require.NotEmpty(t, b64)

	text := scanPNG(t, b64)
	assert.Contains(t, text, "FN:Ada Lovelace\r\n")
	assert.Contains(t, text, "EMAIL:ada@x.com\r\n")
	assert.NotContains(t, text, "TEL")
	assert.NotContains(t, text, "URL")
	assert.Equal(t, vcard.Format(ada), text)
}

func TestGenerate_SizeOnlyChangesScale(t *testing.T) {
	pl := newPipeline(nil)

	small, err := pl.Generate(context.Background(), ada, 2)
	require.NoError(t, err)
	large, err := pl.Generate(context.Background(), ada, 10)
	require.NoError(t, err)

	assert.Equal(t, small.Version, large.Version)
	assert.Equal(t, small.Image.Width*5, large.Image.Width)
	assert.Equal(t, scanPNG(t, small.Image.Base64), scanPNG(t, large.Image.Base64))

	def, err := pl.Generate(context.Background(), ada, 0)
	require.NoError(t, err)
	assert.Equal(t, small.Image.Width*qrimage.DefaultModuleSize/2, def.Image.Width)
}

func TestGenerate_Errors(t *testing.T) {
	pl := newPipeline(nil)
	ctx := context.Background()

	_, err := pl.Generate(ctx, vcard.Contact{FirstName: "Ada", Email: "ada@x.com"}, 0)
	var validationErr *profile.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "last_name")

	huge := strings.Repeat("x", 3000)
	_, err = pl.Generate(ctx, vcard.Contact{FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.com", GitHub: &huge}, 0)
	var encErr *qrcode.EncodingError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, qrcode.Medium, encErr.Level)

	_, err = pl.Generate(ctx, ada, qrimage.MaxModuleSize+1)
	assert.ErrorIs(t, err, qrimage.ErrRender)
}

func TestByID(t *testing.T) {
	ctx := context.Background()
	dir := profile.NewDirectory()
	github := "https://github.com/grace"
	p, err := dir.Create(ctx, profile.Profile{FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil", GitHub: &github})
	require.NoError(t, err)

	payload, err := newPipeline(nil).ByID(ctx, dir, p.ID, 3)
	require.NoError(t, err)
	assert.Contains(t, scanPNG(t, payload.Image.Base64), "URL;TYPE=GitHub:https://github.com/grace\r\n")

	_, err = newPipeline(nil).ByID(ctx, dir, 99, 3)
	assert.ErrorIs(t, err, profile.ErrNotFound)
}

func TestGenerate_Concurrent(t *testing.T) {
	pl := newPipeline(nil)
	want, err := pl.GenerateContactCode(context.Background(), ada, 4)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := pl.GenerateContactCode(context.Background(), ada, 4)
			assert.NoError(t, err)
			assert.Equal(t, want, got)
		}()
	}
	wg.Wait()
}

func newRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, 0), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	cache, mr := newRedisCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	pl := newPipeline(cache)
	first, err := pl.Generate(ctx, ada, 5)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], CacheKeyPrefix))
	assert.Equal(t, DefaultCacheTTL, mr.TTL(keys[0]))

	second, err := pl.Generate(ctx, ada, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// a different size is a different key
	_, err = pl.Generate(ctx, ada, 6)
	require.NoError(t, err)
	assert.Len(t, mr.Keys(), 2)
}

func TestRedisCache_FailureFallsBackToRendering(t *testing.T) {
	cache, mr := newRedisCache(t)
	mr.Close()

	b64, err := newPipeline(cache).GenerateContactCode(context.Background(), ada, 4)
	require.NoError(t, err)
	assert.Equal(t, vcard.Format(ada), scanPNG(t, b64))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	cache, mr := newRedisCache(t)
	require.NoError(t, mr.Set(CacheKeyPrefix+"k", "{not json"))

	_, ok, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestCacheKey(t *testing.T) {
	a := cacheKey("text", qrcode.Medium, 8)
	assert.Equal(t, a, cacheKey("text", qrcode.Medium, 8))
	assert.NotEqual(t, a, cacheKey("text", qrcode.High, 8))
	assert.NotEqual(t, a, cacheKey("text", qrcode.Medium, 9))
	assert.NotEqual(t, a, cacheKey("text!", qrcode.Medium, 8))
}

var errBoom = errors.New("boom")

type failingSource struct{}

func (failingSource) GetByID(context.Context, int64) (*profile.Profile, error) {
	return nil, errBoom
}

func TestByID_SourceError(t *testing.T) {
	_, err := newPipeline(nil).ByID(context.Background(), failingSource{}, 1, 0)
	assert.ErrorIs(t, err, errBoom)
}
