package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAdPixels(t *testing.T) {
	ex := Extract([]string{
		`<script>fbq('init', '1234');</script>`,
		`<script src="https://www.googletagmanager.com/gtm.js?id=GTM-X"></script>`,
		`<script>fbq("init", "5678");</script>`,
	})
	assert.Len(t, ex.AdPixels, 2, "same pixel pattern counted once")

	sig := ex.Signals()
	assert.True(t, sig.AdsActive)
}

func TestExtractNoSignals(t *testing.T) {
	ex := Extract([]string{"<html><body>Plain brochure site.</body></html>"})
	assert.Empty(t, ex.AdPixels)
	assert.Zero(t, ex.CommerceHints)
	assert.False(t, ex.HiringRelevant)

	sig := ex.Signals()
	assert.False(t, sig.AdsActive)
	assert.Zero(t, sig.StoreCountDelta90d)
	assert.Zero(t, sig.InboundMentions30d)
}

func TestExtractCommerceHints(t *testing.T) {
	ex := Extract([]string{
		`<link href="https://cdn.shopify.com/s/files/theme.css">`,
		`<button>Add to Cart</button>`,
	})
	assert.Equal(t, 2, ex.CommerceHints)
}

func TestExtractHiring(t *testing.T) {
	t.Run("relevant function", func(t *testing.T) {
		ex := Extract([]string{"We're hiring! Open role: Store Manager in Utrecht."})
		assert.Equal(t, 1, ex.HiringPages)
		assert.True(t, ex.HiringRelevant)
		assert.True(t, ex.Signals().HiringRelevant)
	})

	t.Run("irrelevant function", func(t *testing.T) {
		ex := Extract([]string{"We're hiring! Open role: Backend Engineer."})
		assert.Equal(t, 1, ex.HiringPages)
		assert.False(t, ex.HiringRelevant)
	})
}

func TestExtractGrowthAndPromo(t *testing.T) {
	ex := Extract([]string{
		"Grand opening of our new store in Amsterdam!",
		"Black Friday sale: 20% off everything, free shipping.",
	})
	assert.Equal(t, 2, ex.GrowthMentions, "new store + grand opening")
	assert.GreaterOrEqual(t, ex.PromoMentions, 3)

	sig := ex.Signals()
	assert.Equal(t, ex.GrowthMentions, sig.StoreCountDelta90d)
	assert.Equal(t, ex.PromoMentions, sig.InboundMentions30d)
}

func TestExtractCaseInsensitive(t *testing.T) {
	ex := Extract([]string{"WE ARE HIRING a PURCHASING lead"})
	assert.True(t, ex.HiringRelevant)
}
