// Package qrcode renders claim URLs as PNG QR codes for product stickers,
// using github.com/skip2/go-qrcode.
//
//	url := qrcode.ClaimURL("https://claim.example.com/mint", tok)
//	png, err := qrcode.Generate(url, 512)
package qrcode
