package scraper

import (
	"context"
	"errors"
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"

	"github.com/use-agent/trawler/models"
)

func TestResourceFilter(t *testing.T) {
	f := newResourceFilter([]string{"Image", "Font", "Bogus"}, true)

	tests := []struct {
		name string
		rt   proto.NetworkResourceType
		url  string
		want bool
	}{
		{"image blocked", proto.NetworkResourceTypeImage, "https://www.bing.com/a.png", true},
		{"font blocked", proto.NetworkResourceTypeFont, "https://www.bing.com/a.woff", true},
		{"document allowed", proto.NetworkResourceTypeDocument, "https://www.bing.com/search?q=go", false},
		{"tracker subdomain", proto.NetworkResourceTypeScript, "https://pagead2.googlesyndication.com/x.js", true},
		{"tracker exact", proto.NetworkResourceTypeXHR, "https://bat.bing.com/action", true},
		{"script allowed", proto.NetworkResourceTypeScript, "https://cdn.sstatic.net/js/stub.js", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.blocks(tt.rt, tt.url))
		})
	}
}

func TestResourceFilter_Empty(t *testing.T) {
	assert.True(t, newResourceFilter(nil, false).empty())
	assert.True(t, newResourceFilter([]string{"Unknown"}, false).empty())
	assert.False(t, newResourceFilter(nil, true).empty())

	f := newResourceFilter(nil, false)
	assert.False(t, f.blocks(proto.NetworkResourceTypeScript, "https://doubleclick.net/x"))
}

func TestIsTrackerHost(t *testing.T) {
	assert.True(t, isTrackerHost("DoubleClick.net"))
	assert.True(t, isTrackerHost("stats.g.doubleclick.net"))
	assert.False(t, isTrackerHost("stackoverflow.com"))
	assert.False(t, isTrackerHost(""))
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, models.ErrCodeTimeout, categorizeError(context.DeadlineExceeded, "x").Code)
	assert.Equal(t, models.ErrCodeTimeout, categorizeError(context.Canceled, "x").Code)
	assert.Equal(t, models.ErrCodeNavigation, categorizeError(errors.New("net::ERR_NAME_NOT_RESOLVED"), "x").Code)
}

func TestToHeadersMap(t *testing.T) {
	m := toHeadersMap(map[string]string{"Accept-Language": "en-US"})
	assert.Equal(t, "en-US", m["Accept-Language"].Str())
}
