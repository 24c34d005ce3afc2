package writer

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
	reco "github.com/next-exp/tdc_go/pkg"
)

type BloscAlgorithm struct {
	Name string
	Code hdf5.BloscFilter
}

const (
	BLOSC_BLOSCLZ = hdf5.BLOSC_BLOSCLZ
	BLOSC_LZ4     = hdf5.BLOSC_LZ4
	BLOSC_LZ4HC   = hdf5.BLOSC_LZ4HC
	BLOSC_SNAPPY  = hdf5.BLOSC_SNAPPY
	BLOSC_ZLIB    = hdf5.BLOSC_ZLIB
	BLOSC_ZSTD    = hdf5.BLOSC_ZSTD
)

// Same order as the filter codes
var bloscAlgorithmStrings = []string{
	"blosclz",
	"lz4",
	"lz4hc",
	"snappy",
	"zlib",
	"zstd",
}

func (b BloscAlgorithm) String() string {
	if b.Code < BLOSC_BLOSCLZ || b.Code > BLOSC_ZSTD {
		return "UNKNOWN"
	}
	return bloscAlgorithmStrings[b.Code]
}

func ParseBloscAlgorithm(name string) (BloscAlgorithm, error) {
	for i, v := range bloscAlgorithmStrings {
		if v == name {
			return BloscAlgorithm{Name: name, Code: hdf5.BloscFilter(i)}, nil
		}
	}
	return BloscAlgorithm{}, fmt.Errorf("invalid blosc algorithm: %s", name)
}

type BloscShuffle struct {
	Name string
	Code hdf5.BloscShuffle
}

const (
	BLOSC_NOSHUFFLE  = hdf5.BLOSC_NOSHUFFLE
	BLOSC_SHUFFLE    = hdf5.BLOSC_SHUFFLE
	BLOSC_BITSHUFFLE = hdf5.BLOSC_BITSHUFFLE
)

var bloscShuffleStrings = []string{
	"no-shuffle",
	"byte-shuffle",
	"bit-shuffle",
}

func (b BloscShuffle) String() string {
	if b.Code < BLOSC_NOSHUFFLE || b.Code > BLOSC_BITSHUFFLE {
		return "UNKNOWN"
	}
	return bloscShuffleStrings[b.Code]
}

func ParseBloscShuffle(name string) (BloscShuffle, error) {
	for i, v := range bloscShuffleStrings {
		if v == name {
			return BloscShuffle{Name: name, Code: hdf5.BloscShuffle(i)}, nil
		}
	}
	return BloscShuffle{}, fmt.Errorf("invalid blosc shuffle: %s", name)
}

// Compression is the filter applied to every table. Deflate at Level unless
// UseBlosc is set.
type Compression struct {
	Level     int
	UseBlosc  bool
	Algorithm BloscAlgorithm
	Shuffle   BloscShuffle
}

func (c Compression) String() string {
	if !c.UseBlosc {
		return fmt.Sprintf("deflate, level %d", c.Level)
	}
	return fmt.Sprintf("blosc %s, level %d, %s", c.Algorithm, c.Level, c.Shuffle)
}

// CompressionFromConfig reads the compression settings of the configuration.
func CompressionFromConfig(config reco.Configuration) (Compression, error) {
	compression := Compression{Level: config.CompressionLevel, UseBlosc: config.UseBlosc}
	if !config.UseBlosc {
		return compression, nil
	}
	var err error
	if compression.Algorithm, err = ParseBloscAlgorithm(config.BloscAlgorithm); err != nil {
		return compression, err
	}
	if compression.Shuffle, err = ParseBloscShuffle(config.BloscShuffle); err != nil {
		return compression, err
	}
	return compression, nil
}

func (c Compression) configure(plist *hdf5.PropList) error {
	if c.UseBlosc {
		hdf5.ConfigureBloscFilter(plist, c.Algorithm.Code, c.Level, c.Shuffle.Code)
		return nil
	}
	return plist.SetDeflate(c.Level)
}
