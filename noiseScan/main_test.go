package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	analyzer "github.com/fmgonzalez-iu/MCA-Analysis/pkg"
)

func TestProtheroeSummary(t *testing.T) {
	scan := []analyzer.ProtheroeSecond{
		{Start: 600, UpsilonA: 1, UpsilonB: 4},
		{Start: 601, UpsilonA: 3, UpsilonB: 2},
	}
	expected := "Protheroe - 2.000000000000000000,3.000000000000000000,601.000000," +
		"3.000000000000000000,4.000000000000000000,600.000000"
	assert.Equal(t, expected, protheroeSummary(scan))
}
