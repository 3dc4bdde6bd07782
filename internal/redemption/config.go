package redemption

import "time"

type Config struct {
	Secret           string        `env:"CLAIM_SECRET,required,unset"`
	SingleUse        bool          `env:"CLAIM_SINGLE_USE" envDefault:"true"`
	Ledger           string        `env:"CLAIM_LEDGER" envDefault:"memory"` // memory, redis or postgres
	ReservationTTL   time.Duration `env:"CLAIM_RESERVATION_TTL" envDefault:"5m"`
	DefaultRecipient string        `env:"CLAIM_DEFAULT_RECIPIENT"`
}
