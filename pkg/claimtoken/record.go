package claimtoken

import (
	"errors"
	"fmt"
	"math"
)

// MaxSerialNumber is the largest serial accepted by Validate.
const MaxSerialNumber = math.MaxUint32

// ClaimRecord is the logical content of a claim token.
type ClaimRecord struct {
	SerialNumber uint64 `json:"serialNumber"`
	Color        string `json:"color"`
	ProductType  string `json:"productType"`
}

// Validate reports whether the record describes a mintable item.
// All three fields must be set; a record missing any of them is rejected as a whole.
func (r ClaimRecord) Validate() error {
	var errs []error
	if r.SerialNumber == 0 {
		errs = append(errs, errors.New("serial number is required"))
	} else if r.SerialNumber > MaxSerialNumber {
		errs = append(errs, fmt.Errorf("serial number %d exceeds %d", r.SerialNumber, uint64(MaxSerialNumber)))
	}
	switch {
	case r.Color == "":
		errs = append(errs, errors.New("color is required"))
	case len(r.Color) > MaxTextLength:
		errs = append(errs, fmt.Errorf("%w: color is %d bytes", ErrFieldTooLong, len(r.Color)))
	}
	switch {
	case r.ProductType == "":
		errs = append(errs, errors.New("product type is required"))
	case len(r.ProductType) > MaxTextLength:
		errs = append(errs, fmt.Errorf("%w: product type is %d bytes", ErrFieldTooLong, len(r.ProductType)))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidRecord}, errs...)...)
	}
	return nil
}

func (r ClaimRecord) String() string {
	return fmt.Sprintf("%s/%s #%d", r.ProductType, r.Color, r.SerialNumber)
}
