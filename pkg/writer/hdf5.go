package writer

import (
	"fmt"

	hdf5 "github.com/jmbenlloch/go-hdf5"
)

type RunInfoHDF5 struct {
	run_number    int32
	origin        int64
	records       int64
	skipped       int64
	routed        int64
	processing_id [STRLEN]byte
}

type AxisEventHDF5 struct {
	evt_number int32
	mcp_time   int64
	matched    int8
	coordinate int64
}

type AxisSummaryHDF5 struct {
	axis             [STRLEN]byte
	matched          int64
	no_hit           int64
	ambiguous        int64
	out_of_tolerance int64
}

type TimeSumHDF5 struct {
	timesum int64
}

type HistogramBinHDF5 struct {
	low_edge float64
	counts   int64
}

const STRLEN = 40

// Rows per chunk in every table
const tableChunk = 32768

func convertToHdf5String(s string) [STRLEN]byte {
	var byteArray [STRLEN]byte
	copy(byteArray[:], s)
	return byteArray
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	if err != nil {
		return nil, &ErrCreateGroup{GroupName: groupName, Err: err}
	}
	return g, nil
}

func createTable(group *hdf5.Group, name string, datatype interface{}, compression Compression) (*hdf5.Dataset, error) {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	fileSpace, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer fileSpace.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	defer plist.Close()

	if err := plist.SetChunk([]uint{tableChunk}); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	if err := compression.configure(plist); err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}

	dset, err := group.CreateDatasetWith(name, dtype, fileSpace, plist)
	if err != nil {
		return nil, &ErrCreateTable{TableName: name, Err: err}
	}
	return dset, nil
}

// writeArrayToTable appends rows at the end of a table currently holding
// nRows rows and returns the new number of rows.
func writeArrayToTable[T any](dataset *hdf5.Dataset, name string, data *[]T, nRows int) (int, error) {
	length := uint(len(*data))
	if length == 0 {
		return nRows, nil
	}
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return nRows, &ErrWriteTable{TableName: name, Err: err}
	}
	defer dataspace.Close()

	// extend
	rowsInFile := uint(nRows)
	newsize := []uint{rowsInFile + length}
	if err := dataset.Resize(newsize); err != nil {
		return nRows, &ErrWriteTable{TableName: name, Err: err}
	}
	filespace := dataset.Space()
	defer filespace.Close()

	start := []uint{rowsInFile}
	count := []uint{length}
	if err := filespace.SelectHyperslab(start, nil, count, nil); err != nil {
		return nRows, &ErrWriteTable{TableName: name, Err: err}
	}

	if err := dataset.WriteSubset(data, dataspace, filespace); err != nil {
		return nRows, &ErrWriteTable{TableName: name, Err: fmt.Errorf("write subset: %w", err)}
	}
	return nRows + int(length), nil
}
