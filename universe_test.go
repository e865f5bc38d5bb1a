package momentum

import (
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestReadTickers(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{
			name: "header",
			in:   "ticker,name\nAAPL,Apple\nRY.TO,Royal Bank\n",
			want: []string{"AAPL", "RY.TO"},
		},
		{
			name: "header in second column with BOM",
			in:   "\ufeffName,Symbol\nApple,AAPL\nMicrosoft,MSFT\n",
			want: []string{"AAPL", "MSFT"},
		},
		{
			name: "no header",
			in:   "AAPL\nmsft\n",
			want: []string{"AAPL", "msft"},
		},
		{
			name: "ragged rows",
			in:   "symbol,exchange\nAAPL\n,TSX\nBRK.A,NYSE\n",
			want: []string{"AAPL", "", "BRK.A"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadTickers(strings.NewReader(tc.in), nil)
			if err != nil {
				t.Fatalf("ReadTickers() unexpected error = %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Errorf("ReadTickers() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestReadTickers_UnknownHeader(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	got, err := ReadTickers(strings.NewReader("Name,Sector\nAAPL,Technology\n"), zap.New(core))
	if err != nil {
		t.Fatalf("ReadTickers() unexpected error = %v", err)
	}
	if want := []string{"Name", "AAPL"}; !slices.Equal(got, want) {
		t.Errorf("ReadTickers() = %q, want %q", got, want)
	}
	if logs.Len() != 1 {
		t.Errorf("ReadTickers() logged %d warnings, want 1", logs.Len())
	}

	core, logs = observer.New(zapcore.WarnLevel)
	if _, err := ReadTickers(strings.NewReader("AAPL,Apple Inc\nMSFT,Microsoft\n"), zap.New(core)); err != nil {
		t.Fatalf("ReadTickers() unexpected error = %v", err)
	}
	if logs.Len() != 0 {
		t.Errorf("ReadTickers() warned on a headerless file: %v", logs.All())
	}
}
