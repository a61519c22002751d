package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneAll(t *testing.T) {
	src := sampleProducts()[:2]
	out := CloneAll(src)
	out[0].Sizes[0] = "XXL"
	out[1].Profession = append(out[1].Profession[:0], "Dentist")

	assert.Equal(t, []string{"S", "M"}, src[0].Sizes)
	assert.Equal(t, []string{"Doctor"}, src[1].Profession)

	assert.NotNil(t, CloneAll[Product](nil))
	assert.Nil(t, ClonePtr[Order](nil))
}

func TestOrderClone(t *testing.T) {
	o := Order{ID: 1, Items: []CartLineItem{{ID: "a", Quantity: 1}}, ShippingAddress: &Address{City: "Boston"}}
	c := o.Clone()
	c.Items[0].Quantity = 5
	c.ShippingAddress.City = "Denver"

	assert.Equal(t, 1, o.Items[0].Quantity)
	assert.Equal(t, "Boston", o.ShippingAddress.City)
}

func TestMergeJSON(t *testing.T) {
	cur := User{
		ID:          1,
		FirstName:   "Sarah",
		Phone:       "+1-555-0100",
		Preferences: Preferences{Newsletter: true, SMSNotifications: true},
		Addresses:   []Address{{City: "Boston"}},
	}

	merged, err := MergeJSON(cur, []byte(`{"phone":"+1-555-9999","preferences":{"orderUpdates":true}}`))
	require.NoError(t, err)
	assert.Equal(t, "+1-555-9999", merged.Phone)
	assert.Equal(t, "Sarah", merged.FirstName)
	assert.Equal(t, Preferences{OrderUpdates: true}, merged.Preferences)
	assert.Equal(t, "Boston", merged.Addresses[0].City)

	_, err = MergeJSON(cur, []byte(`[1,2]`))
	assert.Error(t, err)
}
