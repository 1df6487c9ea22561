package output

import (
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// CanRenderQR reports whether w is a terminal.
func CanRenderQR(w io.Writer) bool {
	return isTerminal(w)
}

// RenderQR draws data as a half-block QR code when w is a terminal and
// writes nothing otherwise.
func RenderQR(w io.Writer, data string) error {
	if !CanRenderQR(w) {
		return nil
	}
	return renderQR(w, data)
}

func renderQR(w io.Writer, data string) error {
	if _, err := qr.Encode(data, qr.L); err != nil {
		return err
	}
	qrterminal.GenerateWithConfig(data, qrterminal.Config{
		Level:          qr.L,
		Writer:         w,
		QuietZone:      1,
		HalfBlocks:     true,
		BlackChar:      qrterminal.BLACK_BLACK,
		WhiteChar:      qrterminal.WHITE_WHITE,
		WhiteBlackChar: qrterminal.WHITE_BLACK,
		BlackWhiteChar: qrterminal.BLACK_WHITE,
	})
	return nil
}

// QRPNG returns data as a PNG QR code.
func QRPNG(data string) ([]byte, error) {
	code, err := qr.Encode(data, qr.M)
	if err != nil {
		return nil, err
	}
	return code.PNG(), nil
}
