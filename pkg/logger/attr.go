package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

func Serial(n uint64) slog.Attr {
	return slog.Uint64("serial_number", n)
}

func ProductType(name string) slog.Attr {
	return slog.String("product_type", name)
}

func Color(name string) slog.Attr {
	return slog.String("color", name)
}

func TxHash(hash string) slog.Attr {
	return slog.String("tx_hash", hash)
}

// RedemptionID records the redemption identifier under the key "redemption_id".
func RedemptionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("redemption_id", id)
}

func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
