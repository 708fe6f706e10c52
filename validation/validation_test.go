package validation

import (
	"testing"

	"github.com/junaidrashid-git/commerce-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string          `json:"name" validate:"required,min=2"`
	Price    decimal.Decimal `json:"price" validate:"money"`
	Discount decimal.Decimal `json:"discount" validate:"percent"`
	Phone    string          `json:"phone" validate:"omitempty,phone"`
	Zip      string          `json:"zipCode" validate:"zip"`
	Password string          `json:"password" validate:"min=8,strongpw"`
}

func valid() sample {
	return sample{
		Name:     "Blender",
		Price:    decimal.RequireFromString("1299.50"),
		Discount: decimal.NewFromInt(15),
		Phone:    "+919876543210",
		Zip:      "400001",
		Password: "Secret123",
	}
}

func TestStructAccepts(t *testing.T) {
	assert.NoError(t, Struct(valid()))

	s := valid()
	s.Phone = ""
	assert.NoError(t, Struct(s))
}

func TestStructRejects(t *testing.T) {
	cases := map[string]func(*sample){
		"name":     func(s *sample) { s.Name = "B" },
		"price":    func(s *sample) { s.Price = decimal.NewFromInt(-1) },
		"discount": func(s *sample) { s.Discount = decimal.NewFromInt(101) },
		"phone":    func(s *sample) { s.Phone = "12345" },
		"zipCode":  func(s *sample) { s.Zip = "4000" },
		"password": func(s *sample) { s.Password = "alllowercase1" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			s := valid()
			mutate(&s)
			err := Struct(s)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("email", "store@example.com", "required,email"))

	err := Var("email", "not-an-email", "required,email")
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "email must be a valid email")
}

func TestStrongPassword(t *testing.T) {
	assert.True(t, StrongPassword("Abcdefg1"))
	assert.False(t, StrongPassword("abcdefg1"))
	assert.False(t, StrongPassword("ABCDEFG1"))
	assert.False(t, StrongPassword("Abcdefgh"))
}
