package wallet

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Total sums the spendable value of a UTXO set exactly.
func Total(utxos []UTXO) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, u := range utxos {
		v, err := u.Value.Decimal()
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("utxo %s: %w", u.Ref(), err)
		}
		total = total.Add(v)
	}
	return total, nil
}

// FundingTarget computes amount + network fee + validator fee for coin
// selection. Empty fee strings count as zero.
func FundingTarget(amount, networkFee, validatorFee decimal.Decimal) decimal.Decimal {
	return amount.Add(networkFee).Add(validatorFee)
}
