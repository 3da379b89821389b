package main

import (
	"fmt"

	"github.com/jmbenlloch/go-hdf5"
)

type EventDataHDF5 struct {
	evt_number   int32
	timestamp    uint64
	multiplicity int32
}

type RunInfoHDF5 struct {
	run_number  int32
	event_width int32
}

type HitDataHDF5 struct {
	evt_number int32
	module     int16
	channel    int16
	timestamp  uint64
	energy     int32
	cfd        int32
	trace_idx  int32
}

func openFile(fname string) *hdf5.File {
	// create the file
	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		panic(err)
	}
	return f
}

func createGroup(file *hdf5.File, groupName string) (*hdf5.Group, error) {
	g, err := file.CreateGroup(groupName)
	return g, err
}

func createTable(group *hdf5.Group, name string, datatype interface{}) *hdf5.Dataset {
	dims := []uint{0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims)}
	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}

	// create property list
	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(err)
	}
	chunks := []uint{32768}
	plist.SetChunk(chunks)
	// Set compression level
	plist.SetDeflate(4)

	// create the memory data type
	dtype, err := hdf5.NewDatatypeFromValue(datatype)
	if err != nil {
		panic("could not create a dtype")
	}

	// create the dataset
	dset, err := group.CreateDatasetWith(name, dtype, file_space, plist)
	if err != nil {
		fmt.Println(err)
		panic(err)
	}
	return dset
}

// createTraceArray makes a growable [nTraces, nSamples] dataset for the
// raw traces of one run.
func createTraceArray(group *hdf5.Group, name string, nSamples int) *hdf5.Dataset {
	dims := []uint{0, 0}
	unlimitedDims := -1 // H5S_UNLIMITED is -1L
	maxDims := []uint{uint(unlimitedDims), uint(nSamples)}
	chunks := []uint{1, 32768}

	file_space, err := hdf5.CreateSimpleDataspace(dims, maxDims)
	if err != nil {
		panic(err)
	}

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		panic(err)
	}
	plist.SetChunk(chunks)
	plist.SetDeflate(4)

	dset, err := group.CreateDatasetWith(name, hdf5.T_NATIVE_INT16, file_space, plist)
	if err != nil {
		fmt.Println(err)
		panic(err)
	}
	return dset
}

func writeEntryToTable[T any](dataset *hdf5.Dataset, data T) {
	array := []T{data}
	writeArrayToTable(dataset, &array)
}

func writeArrayToTable[T any](dataset *hdf5.Dataset, data *[]T) {
	length := uint(len(*data))
	dims := []uint{length}
	dataspace, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		panic(err)
	}

	// extend
	dimsGot, _, err := dataset.Space().SimpleExtentDims()
	entriesInFile := dimsGot[0]
	newsize := []uint{entriesInFile + length}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{entriesInFile}
	count := []uint{length}
	filespace.SelectHyperslab(start, nil, count, nil)

	// write data to the dataset
	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		panic(err)
	}

	dataspace.Close()
	filespace.Close()
}

func writeTraceRow(dataset *hdf5.Dataset, data *[]int16) {
	// extend
	dimsGot, maxdimsGot, err := dataset.Space().SimpleExtentDims()
	tracesInFile := dimsGot[0]
	nSamples := maxdimsGot[1]
	newsize := []uint{tracesInFile + 1, nSamples}
	dataset.Resize(newsize)
	filespace := dataset.Space()

	start := []uint{tracesInFile, 0}
	count := []uint{1, nSamples}
	filespace.SelectHyperslab(start, nil, count, nil)

	dataspace, err := hdf5.CreateSimpleDataspace(count, nil)
	if err != nil {
		panic(err)
	}

	err = dataset.WriteSubset(data, dataspace, filespace)
	if err != nil {
		panic(err)
	}

	dataspace.Close()
	filespace.Close()
}
