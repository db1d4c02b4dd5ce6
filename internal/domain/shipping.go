package domain

// DefaultCountry is the prefilled shipping country.
const DefaultCountry = "México"

// ShippingDetails is the checkout shipping form. All fields except Country
// are required; Country defaults to DefaultCountry.
type ShippingDetails struct {
	Name       string `json:"nombre"`
	Email      string `json:"email"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
	City       string `json:"ciudad"`
	State      string `json:"estado"`
	PostalCode string `json:"codigoPostal"`
	Country    string `json:"pais"`
}

func NewShippingDetails() ShippingDetails {
	return ShippingDetails{Country: DefaultCountry}
}
