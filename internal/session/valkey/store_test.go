package sessionvalkey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "storefront:session:abc", New(nil, "storefront:").key("abc"))
	assert.Equal(t, "shop:session:abc", New(nil, "shop").key("abc"))
}
