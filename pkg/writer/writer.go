package writer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	reco "github.com/next-exp/tdc_go/pkg"
	hdf5 "github.com/jmbenlloch/go-hdf5"
	"golang.org/x/exp/slices"
)

// Writer stores the reconstruction of one batch in an HDF5 file:
//
//	/Run/runInfo                  run number, trigger origin, demux counters
//	/Reconstruction/<axis>        one row per reference hit
//	/Reconstruction/summary       matched/unmatched counters per axis
//	/TimeSum/<axis>               raw time-sum samples
//	/TimeSum/<axis>_histogram     binned time sums
type Writer struct {
	File         *hdf5.File
	Filename     string
	Compression  Compression
	RunGroup     *hdf5.Group
	RecoGroup    *hdf5.Group
	TimeSumGroup *hdf5.Group
	RunInfoTable *hdf5.Dataset
	SummaryTable *hdf5.Dataset
	tables       map[string]*hdf5.Dataset
	rows         map[string]int
}

func NewWriter(filename string, compression Compression) (*Writer, error) {
	if compression.UseBlosc {
		if _, _, err := hdf5.RegisterBlosc(); err != nil {
			return nil, fmt.Errorf("error registering blosc filter: %w", err)
		}
	}

	file, err := hdf5.CreateFile(filename, hdf5.F_ACC_TRUNC)
	if err != nil {
		return nil, &reco.ErrOpenFile{Filename: filename, Err: err}
	}
	w := &Writer{
		File:        file,
		Filename:    filename,
		Compression: compression,
		tables:      make(map[string]*hdf5.Dataset),
		rows:        make(map[string]int),
	}

	if w.RunGroup, err = createGroup(file, "Run"); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.RecoGroup, err = createGroup(file, "Reconstruction"); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.TimeSumGroup, err = createGroup(file, "TimeSum"); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.RunInfoTable, err = w.table(w.RunGroup, "Run/runInfo", "runInfo", RunInfoHDF5{}); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	if w.SummaryTable, err = w.table(w.RecoGroup, "Reconstruction/summary", "summary", AxisSummaryHDF5{}); err != nil {
		return nil, errors.Join(err, w.Close())
	}
	return w, nil
}

func (w *Writer) table(group *hdf5.Group, key string, name string, datatype interface{}) (*hdf5.Dataset, error) {
	if dset, ok := w.tables[key]; ok {
		return dset, nil
	}
	dset, err := createTable(group, name, datatype, w.Compression)
	if err != nil {
		return nil, err
	}
	w.tables[key] = dset
	return dset, nil
}

func appendRows[T any](w *Writer, key string, dset *hdf5.Dataset, data []T) error {
	n, err := writeArrayToTable(dset, key, &data, w.rows[key])
	w.rows[key] = n
	return err
}

func (w *Writer) WriteRunInfo(runNumber int, processingID uuid.UUID, batch reco.Batch) error {
	info := []RunInfoHDF5{{
		run_number:    int32(runNumber),
		origin:        batch.Origin,
		records:       int64(batch.Stats.Records),
		skipped:       int64(batch.Stats.Skipped),
		routed:        int64(batch.Stats.Routed),
		processing_id: convertToHdf5String(processingID.String()),
	}}
	return appendRows(w, "Run/runInfo", w.RunInfoTable, info)
}

// WriteAxis writes one row per reference hit with the matched flag and the
// coordinate, zero for unmatched events.
func (w *Writer) WriteAxis(reference []int64, result reco.AxisResult) error {
	reconstruction := result.Reconstruction
	if len(reconstruction.Matched) != len(reference) {
		return fmt.Errorf("axis %s: %d results for %d reference hits", result.Axis, len(reconstruction.Matched), len(reference))
	}
	key := "Reconstruction/" + result.Axis
	dset, err := w.table(w.RecoGroup, key, result.Axis, AxisEventHDF5{})
	if err != nil {
		return err
	}

	rows := make([]AxisEventHDF5, len(reference))
	for i, mcpHit := range reference {
		rows[i] = AxisEventHDF5{
			evt_number: int32(i),
			mcp_time:   mcpHit,
			coordinate: reconstruction.Coordinate[i],
		}
		if reconstruction.Matched[i] {
			rows[i].matched = 1
		}
	}
	if err := appendRows(w, key, dset, rows); err != nil {
		return err
	}

	summary := []AxisSummaryHDF5{{
		axis:             convertToHdf5String(result.Axis),
		matched:          int64(reconstruction.Stats.Matched),
		no_hit:           int64(reconstruction.Stats.NoHit),
		ambiguous:        int64(reconstruction.Stats.Ambiguous),
		out_of_tolerance: int64(reconstruction.Stats.OutOfTolerance),
	}}
	return appendRows(w, "Reconstruction/summary", w.SummaryTable, summary)
}

func (w *Writer) WriteTimeSums(axis string, samples []int64) error {
	key := "TimeSum/" + axis
	dset, err := w.table(w.TimeSumGroup, key, axis, TimeSumHDF5{})
	if err != nil {
		return err
	}
	rows := make([]TimeSumHDF5, len(samples))
	for i, sample := range samples {
		rows[i] = TimeSumHDF5{timesum: sample}
	}
	return appendRows(w, key, dset, rows)
}

func (w *Writer) WriteHistogram(axis string, histogram *reco.Histogram) error {
	name := axis + "_histogram"
	key := "TimeSum/" + name
	dset, err := w.table(w.TimeSumGroup, key, name, HistogramBinHDF5{})
	if err != nil {
		return err
	}
	rows := make([]HistogramBinHDF5, len(histogram.Counts))
	for bin, count := range histogram.Counts {
		rows[bin] = HistogramBinHDF5{low_edge: histogram.LowEdge(bin), counts: count}
	}
	return appendRows(w, key, dset, rows)
}

// Rows returns how many rows have been written to a table, keyed by its path
// inside the file ("Reconstruction/x").
func (w *Writer) Rows(key string) int {
	return w.rows[key]
}

func (w *Writer) Close() error {
	var errs []error

	// Sorted so errors are reported in a stable order
	keys := make([]string, 0, len(w.tables))
	for key := range w.tables {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if err := w.tables[key].Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing table %s: %w", key, err))
		}
	}
	w.tables = make(map[string]*hdf5.Dataset)

	groups := []struct {
		name  string
		group *hdf5.Group
	}{
		{"Run", w.RunGroup},
		{"Reconstruction", w.RecoGroup},
		{"TimeSum", w.TimeSumGroup},
	}
	for _, g := range groups {
		if g.group == nil {
			continue
		}
		if err := g.group.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing %s group: %w", g.name, err))
		}
	}
	w.RunGroup, w.RecoGroup, w.TimeSumGroup = nil, nil, nil

	if w.File != nil {
		if err := w.File.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing file: %w", err))
		}
		w.File = nil
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
