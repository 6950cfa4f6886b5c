package ops

import (
	"github.com/lvlath-tract/tract/tdim"
	"github.com/lvlath-tract/tract/tensor"
)

// sameShapeDims reports whether two symbolic shapes are identical.
func sameShapeDims(a, b []tdim.Dim) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// axisSplit decomposes shape around axis into the product of the
// dimensions before it (outer), the axis length itself, and the product
// of the dimensions after it (inner). A row-major flat offset for
// multi-index (o, a, i) is (o*axisLen+a)*inner + i.
func axisSplit(shape []int, axis int) (outer, axisLen, inner int) {
	outer, inner = 1, 1
	for i, d := range shape {
		switch {
		case i < axis:
			outer *= d
		case i == axis:
			axisLen = d
		default:
			inner *= d
		}
	}
	return outer, axisLen, inner
}

// sameShapeInts reports whether two int shapes are identical.
func sameShapeInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sliceAxis returns the sub-tensor of t restricted to [start, end) along
// axis, leaving every other axis untouched.
func sliceAxis(t tensor.Tensor, axis, start, end int) (tensor.Tensor, error) {
	if axis < 0 || axis >= len(t.Shape) {
		return tensor.Tensor{}, ErrAxisOutOfRange
	}
	outer, axisLen, inner := axisSplit(t.Shape, axis)
	if start < 0 || end > axisLen || start > end {
		return tensor.Tensor{}, ErrAxisOutOfRange
	}
	newLen := end - start
	outShape := append([]int{}, t.Shape...)
	outShape[axis] = newLen
	data := make([]float64, outer*newLen*inner)
	for o := 0; o < outer; o++ {
		srcBase := (o*axisLen + start) * inner
		dstBase := o * newLen * inner
		copy(data[dstBase:dstBase+newLen*inner], t.Data[srcBase:srcBase+newLen*inner])
	}
	return tensor.New(outShape, data)
}

// downsampleAxis keeps every stride-th element along axis, starting at
// modulo, mirroring original_source's Downsample::eval_t.
func downsampleAxis(t tensor.Tensor, axis, stride, modulo int) (tensor.Tensor, error) {
	if axis < 0 || axis >= len(t.Shape) {
		return tensor.Tensor{}, ErrAxisOutOfRange
	}
	outer, axisLen, inner := axisSplit(t.Shape, axis)
	var kept int
	if modulo < axisLen {
		kept = (axisLen-modulo-1)/stride + 1
	}
	outShape := append([]int{}, t.Shape...)
	outShape[axis] = kept
	data := make([]float64, outer*kept*inner)
	for o := 0; o < outer; o++ {
		for k := 0; k < kept; k++ {
			src := (o*axisLen + modulo + k*stride) * inner
			dst := (o*kept + k) * inner
			copy(data[dst:dst+inner], t.Data[src:src+inner])
		}
	}
	return tensor.New(outShape, data)
}

// concatAxis concatenates ts along axis; every tensor must agree with
// the first on every other axis.
func concatAxis(axis int, ts []tensor.Tensor) (tensor.Tensor, error) {
	if len(ts) == 0 {
		return tensor.Tensor{}, ErrWrongArity
	}
	if axis < 0 || axis >= len(ts[0].Shape) {
		return tensor.Tensor{}, ErrAxisOutOfRange
	}
	outShape := append([]int{}, ts[0].Shape...)
	total := 0
	for _, t := range ts {
		if len(t.Shape) != len(outShape) {
			return tensor.Tensor{}, tensor.ErrShapeMismatch
		}
		for i := range outShape {
			if i != axis && t.Shape[i] != outShape[i] {
				return tensor.Tensor{}, tensor.ErrShapeMismatch
			}
		}
		total += t.Shape[axis]
	}
	outShape[axis] = total
	outer, _, inner := axisSplit(ts[0].Shape, axis)
	data := make([]float64, outer*total*inner)
	for o := 0; o < outer; o++ {
		offset := 0
		for _, t := range ts {
			_, axisLen, _ := axisSplit(t.Shape, axis)
			src := (o * axisLen) * inner
			dst := (o*total + offset) * inner
			copy(data[dst:dst+axisLen*inner], t.Data[src:src+axisLen*inner])
			offset += axisLen
		}
	}
	return tensor.New(outShape, data)
}

// padAxis grows t along axis by before+after elements, filling the new
// margins per mode; the interior keeps t's original values.
func padAxis(t tensor.Tensor, axis, before, after int, mode PadMode, constant float64) (tensor.Tensor, error) {
	if axis < 0 || axis >= len(t.Shape) {
		return tensor.Tensor{}, ErrAxisOutOfRange
	}
	if before == 0 && after == 0 {
		return t, nil
	}
	outer, axisLen, inner := axisSplit(t.Shape, axis)
	newLen := before + axisLen + after
	outShape := append([]int{}, t.Shape...)
	outShape[axis] = newLen
	data := make([]float64, outer*newLen*inner)

	frame := func(buf []float64, o, a int) []float64 {
		base := (o*newLen + a) * inner
		return buf[base : base+inner]
	}

	for o := 0; o < outer; o++ {
		srcBase := (o * axisLen) * inner
		dstBase := (o*newLen + before) * inner
		copy(data[dstBase:dstBase+axisLen*inner], t.Data[srcBase:srcBase+axisLen*inner])
	}

	for o := 0; o < outer; o++ {
		for i := 0; i < before; i++ {
			dst := frame(data, o, i)
			switch mode {
			case PadModeConstant:
				for k := range dst {
					dst[k] = constant
				}
			case PadModeEdge:
				copy(dst, frame(data, o, before))
			case PadModeReflect:
				copy(dst, frame(data, o, before+(before-i)))
			}
		}
		for i := 0; i < after; i++ {
			a := before + axisLen + i
			dst := frame(data, o, a)
			switch mode {
			case PadModeConstant:
				for k := range dst {
					dst[k] = constant
				}
			case PadModeEdge:
				copy(dst, frame(data, o, before+axisLen-1))
			case PadModeReflect:
				copy(dst, frame(data, o, before+axisLen-2-i))
			}
		}
	}
	return tensor.New(outShape, data)
}
