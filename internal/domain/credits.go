package domain

// CreditPack is a purchasable bundle of credits. 1 credit buys 1 generated
// image.
type CreditPack struct {
	ID          string
	Credits     int
	AmountCents int
}

var creditPacks = map[string]CreditPack{
	"25":  {ID: "25", Credits: 25, AmountCents: 100},
	"50":  {ID: "50", Credits: 50, AmountCents: 3400},
	"100": {ID: "100", Credits: 100, AmountCents: 7400},
}

// GetCreditPack resolves a pack by id; ok is false for unknown packs.
func GetCreditPack(id string) (CreditPack, bool) {
	pack, ok := creditPacks[id]
	return pack, ok
}
