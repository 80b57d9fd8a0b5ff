// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr encodes its arguments or standard input as a QR code of a given
// version.
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path"
	"strconv"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"go.uber.org/zap"
	"golang.org/x/image/bmp"

	"github.com/unixdj/qrsym"
	"github.com/unixdj/qrsym/coding"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	size    int             // fixed image size
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // filename
	fext    string          // filename suffix
	lev     qr.Level        // QR correction level
	ver     coding.Version  // QR version
	mask    coding.Mask     // QR mask
	format  int             // output file format
	cx      int             // randr source X coordinate index in inc
	inc     [2]int          // randr source X,Y coordinate increments
	bg, fg  rgba            // colour
	colSet  bool            // colour set
	sjis    bool            // convert input to Shift JIS
	upper   bool            // uppercase
	batch   bool            // one code per argument
	debug   bool            // debug logging
	log     *zap.SugaredLogger
}{
	inc: [2]int{1, 1},
	bg:  rgba{0xff, 0xff, 0xff, 0xff},
	fg:  rgba{0x00, 0x00, 0x00, 0xff},
	log: zap.NewNop().Sugar(),
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:max(n, 0)]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  The payload is encoded in numeric, alphanumeric,
kanji or byte mode, whichever is the most compact.

`)
	cl.PrintOptions(w)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 0.9.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

func flip() {
	g.inc[0] = -g.inc[0]
}

func rotate() {
	g.cx ^= 1
	m := g.inc[0] * g.inc[1]
	g.inc[0] *= m
	g.inc[1] *= -m
}

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	if *c == (rgba{0x00, 0x00, 0x00, 0xff}) {
		return "black"
	} else if *c == (rgba{0xff, 0xff, 0xff, 0xff}) {
		return "white"
	} else if c.A == 0xff {
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	} else {
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

var namedColours = map[string]rgba{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"green":  {0x00, 0xff, 0x00, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"yellow": {0xff, 0xff, 0x00, 0xff},
	"none":   {0x00, 0x00, 0x00, 0x00},
}

func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	var ok bool
	if *c, ok = namedColours[strings.ToLower(strings.ReplaceAll(s, " ", ""))]; ok {
		return nil
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(s) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn <<= 8
			nn |= n >> 12 & 0xf * 0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

var formats = []string{
	"png", "pngi", "bmp", "bmpi", "pbm", "pbmi", "eps", "epsi",
	"utf8", "utf8i", "ascii", "asciii",
}

const (
	pngFormat = iota
	bmpFormat
)

var encoders = [...]func(*qr.Code, io.Writer) error{
	(*qr.Code).EncodePNG,
	(*qr.Code).EncodeBMP,
	(*qr.Code).EncodePBM,
	eps,
	func(c *qr.Code, w io.Writer) error {
		_, err := fmt.Fprint(w, c)
		return err
	},
	ascii,
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits or a colour name; `+
		`only for types png[i], bmp[i] and eps[i]`, "RGB[A]|name")
	getopt.Flag(opt(flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.sjis, 'k', "convert input from UTF-8 to Shift JIS, "+
		"enabling kanji mode")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.batch, 'a', `encode each argument as a separate `+
		`code; "-01", "-02" etc. is appended to the filename before `+
		`suffix`)
	getopt.Flag(&g.debug, 'd', "log encoding details to standard error")
	getopt.Flag(&g.border, 'b', `quiet zone pixels [4]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	ver := getopt.Unsigned('v', 1, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 1, Max: 40},
		"QR code version", "ver")
	mask := getopt.Signed('m', -1, &getopt.SignedLimit{Base: 0, Bits: 8, Min: -1, Max: 7},
		"mask pattern; -1 selects the mask with the lowest penalty",
		"mask")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 12}),
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i] and ascii[i]`, "scale")
	size := getopt.Unsigned('z', 0,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 0, Max: 1 << 16}),
		`fixed image size in pixels including the quiet zone; `+
			`overrides -s; only for types png[i] and bmp[i]`, "size")
	ff := getopt.Enum('t', formats, "", `output format, one of: `+
		strings.Join(formats, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()
	g.scale = int(*scale)
	g.size = int(*size)
	g.ver = coding.Version(*ver)
	g.mask = coding.Mask(*mask)
	g.lev = qr.Level(strings.Index("lmqhLMQH", *lev) & 3)
	if !getopt.IsSet('b') {
		g.border = 4
	} else if g.border < 0 {
		fmt.Fprintln(os.Stderr, "-b must not be negative")
		usage()
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	for i, v := range formats {
		if *ff == v {
			g.format = i >> 1
			g.rev = i&1 != 0
			break
		}
	}
	if g.size != 0 && g.format != pngFormat && g.format != bmpFormat {
		fmt.Fprintln(os.Stderr, "-z requires type png[i] or bmp[i]")
		usage()
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.colSet {
		g.palette = &[2]color.Color{color.RGBA(g.bg), color.RGBA(g.fg)}
	}
	if g.debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalln(err)
		}
		g.log = l.Sugar()
	}
}

// payload converts s according to the flags.
func payload(s string) []byte {
	if g.upper {
		s = strings.ToUpper(s)
	}
	if !g.sjis {
		return []byte(s)
	}
	b, err := coding.ShiftJIS(s)
	if err != nil {
		log.Fatalln(err)
	}
	return b
}

func main() {
	log.SetFlags(0)
	parseFlags()
	defer g.log.Sync()

	args := getopt.Args()
	if len(args) == 0 {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ := strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
		args = []string{s}
	} else if !g.batch {
		args = []string{strings.Join(args, " ")}
	}

	if !g.batch {
		c, err := qr.Encode(payload(args[0]), g.ver, g.lev, g.mask)
		if err != nil {
			log.Fatalln(err)
		}
		write(-1, c)
		return
	}

	g.fext = path.Ext(g.fn)
	g.fn = g.fn[:len(g.fn)-len(g.fext)]
	p := make([][]byte, len(args))
	for i, s := range args {
		p[i] = payload(s)
	}
	var cc []*qr.Code
	var err error
	if g.mask == coding.AutoMask {
		cc, err = qr.EncodeBatch(context.Background(), p, g.ver, g.lev)
	} else {
		cc = make([]*qr.Code, len(p))
		for i := range p {
			if cc[i], err = qr.Encode(p[i], g.ver, g.lev, g.mask); err != nil {
				err = fmt.Errorf("qr: payload %d: %w", i, err)
				break
			}
		}
	}
	if err != nil {
		log.Fatalln(err)
	}
	for i, c := range cc {
		write(i, c)
	}
}

func write(i int, c *qr.Code) {
	if s := c.Symbol(); s != nil {
		g.log.Debugw("encoded",
			"index", i,
			"version", s.Version(),
			"level", s.Level(),
			"mode", s.Mode(),
			"mask", s.Mask(),
			"penalty", s.Penalty(),
			"side", s.Side())
	}
	fn := g.fn
	open := fn != "" || g.fext != ""
	var w = os.Stdout
	if open {
		if i >= 0 {
			fn = fmt.Sprintf("%s-%02d%s", fn, i+1, g.fext)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c = randr(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	c.Border = g.border
	var err error
	if g.size != 0 {
		err = fit(c, w)
	} else {
		err = encoders[g.format](c, w)
	}
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// fit writes c resized to g.size pixels.
func fit(c *qr.Code, w io.Writer) error {
	img, err := c.Fit(g.size)
	if err != nil {
		return err
	}
	g.log.Debugw("resized", "size", g.size, "bounds", img.Bounds())
	if g.format == bmpFormat {
		return bmp.Encode(w, img)
	}
	return png.Encode(w, img)
}

// randr rotates and reflects c.
func randr(c *qr.Code) *qr.Code {
	cx, inc := g.cx, g.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return c
	}
	siz := c.Size
	b := make([]byte, len(c.Bitmap))
	var coord [2]int
	coord[cx^1] = (siz - 1) & inc[1]
	for y, i := 0, 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		for x := 0; x < siz; x, i = x+1, i+1 {
			if c.Black(coord[0], coord[1]) {
				b[i>>3] |= 0x80 >> (i & 7)
			}
			coord[cx] += inc[0]
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap = b
	return c
}

// eps writes c as Encapsulated PostScript centred on a letter page,
// one stroked line segment per horizontal run of black modules.
func eps(c *qr.Code, w io.Writer) error {
	const midx, midy = 306, 396
	siz, scale, bord := c.Size, c.Scale, c.Border
	pix := (siz + 2*bord) * scale
	xorig, yorig := (midx*2-pix)/2, (midy*2-pix)/2
	var b bytes.Buffer
	fmt.Fprintf(&b, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: QR https://github.com/unixdj/qrsym
%%%%Title: QR Code version %d
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		(siz-17)/4, xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	pal := c.Palette
	if pal == nil && c.Reverse {
		pal = &[2]color.Color{color.White, color.Black}
	}
	if pal != nil {
		// Paint the background, quiet zone included, then draw
		// black modules in ink.  Reversed codes swap the colours.
		fill, ink := pal[0], pal[1]
		if c.Reverse {
			fill, ink = ink, fill
		}
		fmt.Fprintf(&b, "gsave\nnewpath %d %d moveto\n%d dup neg scale\n",
			-bord, siz/2, siz+2*bord)
		fmt.Fprintf(&b, "%s setrgbcolor\n1 0 rlineto stroke\ngrestore\n",
			psColour(fill))
		fmt.Fprintf(&b, "%s setrgbcolor\n", psColour(ink))
	}
	b.WriteString("newpath 0 0 moveto\n")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			s := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			start := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(&b, "%d %d p ", x-start, start-s)
		}
		b.WriteString("r\n")
	}
	b.WriteString("stroke grestore\nend\n%%Trailer\n")
	_, err := b.WriteTo(w)
	return err
}

// psColour returns the PostScript RGB operands for c.
func psColour(c color.Color) string {
	r, gr, b, _ := c.RGBA()
	return fmt.Sprintf("%.3g %.3g %.3g",
		float64(r)/0xffff, float64(gr)/0xffff, float64(b)/0xffff)
}

// ascii writes c as text, two characters per module, "#" for dark.
func ascii(c *qr.Code, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for y := -c.Border; y < c.Size+c.Border; y++ {
		for x := -c.Border; x < c.Size+c.Border; x++ {
			if c.Black(x, y) != c.Reverse {
				bw.WriteString("##")
			} else {
				bw.WriteString("  ")
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
