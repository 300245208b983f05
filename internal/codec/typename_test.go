package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompressType(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"base prefix stripped", "n8n-nodes-base.httpRequest", "httpRequest"},
		{"langchain prefix shortened", "@n8n/n8n-nodes-langchain.agent", "langchain:agent"},
		{"already qualified left alone", "some.other.package.thing", "some.other.package.thing"},
		{"unrecognized sigil left alone", "@custom/weird.node", "@custom/weird.node"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, CompressType(c.in))
		})
	}
}

func TestRestoreType(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short form re-prefixed", "httpRequest", "n8n-nodes-base.httpRequest"},
		{"langchain shorthand expanded", "langchain:agent", "@n8n/n8n-nodes-langchain.agent"},
		{"already fully qualified left alone", "some.other.package.thing", "some.other.package.thing"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, RestoreType(c.in))
		})
	}
}

func TestTypeNameRoundTrip(t *testing.T) {
	for _, full := range []string{
		"n8n-nodes-base.set",
		"n8n-nodes-base.httpRequest",
		"@n8n/n8n-nodes-langchain.agent",
	} {
		assert.Equal(t, full, RestoreType(CompressType(full)), "round trip for %s", full)
	}
}
