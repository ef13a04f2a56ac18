package helpers

import (
	"log"

	"github.com/shopspring/decimal"
)

func HandleError(err error) {
	if err != nil {
		log.Fatalln(err)
	}
}

// AddDecimalStrings sums two canonical decimal strings, used for the
// monotonically growing accumulator columns.
func AddDecimalStrings(x string, y string) (string, error) {
	xDec, err := decimal.NewFromString(x)
	if err != nil {
		return "", err
	}
	yDec, err := decimal.NewFromString(y)
	if err != nil {
		return "", err
	}
	return xDec.Add(yDec).String(), nil
}
