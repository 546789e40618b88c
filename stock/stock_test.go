package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCode(t *testing.T) {
	assert.Equal(t, "**********WXYZ", MaskCode("ABCD-EFGH-WXYZ"))
	assert.Equal(t, "****", MaskCode("ABCD"))
	assert.Equal(t, "", MaskCode(""))
	assert.Equal(t, "******1234", MaskCode("XXXXX-1234"))
}
