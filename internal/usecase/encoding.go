package usecase

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// encodingSampleSize is how much of a file is inspected to pick its charset.
const encodingSampleSize = 64 * 1024

// minCharsetConfidence is the detector score below which a guess is ignored.
const minCharsetConfidence = 30

// Charset names reported for uploads.
const (
	CharsetUTF8     = "UTF-8"
	CharsetFallback = "windows-1252"
)

// utf8Reader returns a reader yielding r as UTF-8 along with the charset the
// source was read as. UTF-8 input passes through, with any invalid byte past
// the sample decoded as windows-1252; anything else is detected from the
// leading sample and transcoded.
func utf8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, encodingSampleSize)
	sample, err := br.Peek(encodingSampleSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, "", err
	}

	if validUTF8Sample(sample, len(sample) == encodingSampleSize) {
		return transform.NewReader(br, utf8Fallback{}), CharsetUTF8, nil
	}

	detected := ""
	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil && res != nil && res.Confidence >= minCharsetConfidence {
		detected = res.Charset
	}
	enc, charset := charsetEncoding(detected)
	return transform.NewReader(br, enc.NewDecoder()), charset, nil
}

// validUTF8Sample reports whether sample is UTF-8. A full sample may end in
// the middle of a rune that continues past the cut.
func validUTF8Sample(sample []byte, full bool) bool {
	if utf8.Valid(sample) {
		return true
	}
	if !full {
		return false
	}
	for k := 1; k < utf8.UTFMax && k <= len(sample); k++ {
		tail := sample[len(sample)-k:]
		if utf8.RuneStart(tail[0]) {
			return !utf8.FullRune(tail) && utf8.Valid(sample[:len(sample)-k])
		}
	}
	return false
}

// charsetEncoding resolves a detected charset name to a decoder. Unknown
// names, and a UTF-8 guess for bytes that are not UTF-8, fall back to
// windows-1252, which maps every byte.
func charsetEncoding(name string) (encoding.Encoding, string) {
	if name == "" || strings.EqualFold(name, CharsetUTF8) {
		return charmap.Windows1252, CharsetFallback
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return charmap.Windows1252, CharsetFallback
	}
	return enc, name
}

// utf8Fallback copies valid UTF-8 and decodes each byte that does not start
// a valid sequence as windows-1252.
type utf8Fallback struct{ transform.NopResetter }

func (utf8Fallback) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r = charmap.Windows1252.DecodeByte(src[nSrc])
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += size
	}
	return nDst, nSrc, nil
}
