package ui

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const bannerText = `
     _               _____       _            _
  __| | _____   __  / ____| __ _| | __ _ _ __(_) ___  ___
 / _' |/ _ \ \ / / | (___  / _' | |/ _' | '__| |/ _ \/ __|
| (_| |  __/\ V /   \___ \| (_| | | (_| | |  | |  __/\__ \
 \__,_|\___| \_/    ____) |\__,_|_|\__,_|_|  |_|\___||___/
                   |_____/          @fr4nk3nst1ner
`

// ColorizeText fades the text between two random colors
func ColorizeText(text string) string {
	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	from := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	to := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	chars := strings.Split(text, "")
	steps := float32(len(chars))

	var b strings.Builder
	for i, ch := range chars {
		b.WriteString(from.Fade(0, steps, float32(i), to).Sprint(ch))
	}
	return b.String()
}

// PrintBanner writes the application banner to w unless silenced
func PrintBanner(w io.Writer, silence bool) {
	if silence {
		return
	}
	fmt.Fprintln(w, ColorizeText(bannerText))
}
