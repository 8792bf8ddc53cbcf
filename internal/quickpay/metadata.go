package quickpay

import "encoding/json"

// MetaData describes the instrument behind a payment. The gateway types
// the payload by a "type" discriminator (card, mobile, nin); only the
// variant matching the discriminator is populated.
type MetaData struct {
	Type   string `json:"type"`
	Origin string `json:"origin"`

	Card   *CardMetaData   `json:"-"`
	Mobile *MobileMetaData `json:"-"`
	NIN    *NINMetaData    `json:"-"`

	CustomerIP      string   `json:"customer_ip"`
	CustomerCountry string   `json:"customer_country"`
	FraudSuspected  bool     `json:"fraud_suspected"`
	FraudRemarks    []string `json:"fraud_remarks"`
	FraudReported   bool     `json:"fraud_reported"`
	FraudReportedAt string   `json:"fraud_reported_at"`
}

type CardMetaData struct {
	Brand      string `json:"brand"`
	Bin        string `json:"bin"`
	Corporate  string `json:"corporate"`
	Last4      string `json:"last4"`
	ExpMonth   int    `json:"exp_month"`
	ExpYear    int    `json:"exp_year"`
	Country    string `json:"country"`
	Is3DSecure bool   `json:"is_3d_secure"`
	IssuedTo   string `json:"issued_to"`
	Hash       string `json:"hash"`
}

type MobileMetaData struct {
	// Number arrives as either a string or a bare number depending on
	// the acquirer.
	Number json.Number `json:"number"`
}

type NINMetaData struct {
	Number      string `json:"nin_number"`
	CountryCode string `json:"nin_country_code"`
	Gender      string `json:"nin_gender"`
}

func (m *MetaData) UnmarshalJSON(data []byte) error {
	type alias MetaData
	var base alias
	if err := json.Unmarshal(data, &base); err != nil {
		return err
	}
	*m = MetaData(base)

	switch m.Type {
	case "card":
		var card CardMetaData
		if err := json.Unmarshal(data, &card); err != nil {
			return err
		}
		m.Card = &card
	case "mobile":
		var mobile MobileMetaData
		if err := json.Unmarshal(data, &mobile); err != nil {
			return err
		}
		m.Mobile = &mobile
	case "nin":
		var nin NINMetaData
		if err := json.Unmarshal(data, &nin); err != nil {
			return err
		}
		m.NIN = &nin
	}

	return nil
}
