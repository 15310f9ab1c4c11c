package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meditrack/meditrack-api/pkg/db/models"
	"github.com/meditrack/meditrack-api/pkg/enums"
	pkgerrors "github.com/meditrack/meditrack-api/pkg/errors"
	"github.com/meditrack/meditrack-api/pkg/geo"
)

type fakeSource struct {
	activeFn func(ctx context.Context, city string) ([]models.Hospital, error)
}

func (f fakeSource) Active(ctx context.Context, city string) ([]models.Hospital, error) {
	return f.activeFn(ctx, city)
}

type fakeCompleter struct {
	enabled bool
	system  string
	prompt  string
	reply   string
	err     error
}

func (f *fakeCompleter) Enabled() bool { return f.enabled }

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	return f.reply, f.err
}

func hospital(name string, lat, lon float64) models.Hospital {
	return models.Hospital{
		Name:      name,
		Address:   name + " Road",
		Phone:     "022-1111111",
		Latitude:  decimal.NewNullDecimal(decimal.NewFromFloat(lat)),
		Longitude: decimal.NewNullDecimal(decimal.NewFromFloat(lon)),
	}
}

var patient = geo.Point{Latitude: 19.0760, Longitude: 72.8777}

func TestRecommendBuildsPromptFromNearestHospitals(t *testing.T) {
	kem := hospital("KEM Hospital", 19.0030, 72.8417)
	kem.BedInventory = []models.BedInventory{{BedType: enums.BedTypeICU, AvailableBeds: 3}, {BedType: enums.BedTypeGeneral, AvailableBeds: 40}}
	kem.BloodInventory = []models.BloodInventory{{BloodGroup: enums.BloodGroupOPos, UnitsAvailable: 6}, {BloodGroup: enums.BloodGroupONeg}}
	sion := hospital("Sion Hospital", 19.0433, 72.8617)

	var gotCity string
	source := fakeSource{activeFn: func(_ context.Context, city string) ([]models.Hospital, error) {
		gotCity = city
		return []models.Hospital{kem, sion}, nil
	}}
	completer := &fakeCompleter{enabled: true, reply: "1. Sion Hospital"}
	svc, err := NewService(source, completer, nil)
	require.NoError(t, err)

	got, err := svc.Recommend(context.Background(), Request{PatientDescription: "  chest pain, needs ICU ", City: "Mumbai", Location: &patient})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", gotCity)
	assert.Equal(t, &Recommendation{PatientDescription: "chest pain, needs ICU", HospitalsAnalyzed: 2, Recommendation: "1. Sion Hospital"}, got)

	assert.Equal(t, systemPrompt, completer.system)
	assert.True(t, strings.HasPrefix(completer.prompt, "Patient Situation: chest pain, needs ICU\n\nAvailable Hospitals:\n"))
	assert.Contains(t, completer.prompt, "Patient Location: Lat 19.076, Long 72.8777")
	assert.Contains(t, completer.prompt, `"total_beds_available": 43`)
	assert.Contains(t, completer.prompt, `"O+": 6`)
	assert.NotContains(t, completer.prompt, `"O-"`)
	assert.Less(t, strings.Index(completer.prompt, "Sion Hospital"), strings.Index(completer.prompt, "KEM Hospital"))
}

func TestSummarizeKeepsNearestTen(t *testing.T) {
	var rows []models.Hospital
	for i := 12; i > 0; i-- {
		rows = append(rows, hospital(fmt.Sprintf("H%02d", i), patient.Latitude+float64(i)*0.01, patient.Longitude))
	}
	rows = append(rows, models.Hospital{Name: "Unmapped"})

	got := Summarize(patient, rows)
	require.Len(t, got, MaxHospitals)
	assert.Equal(t, "H01", got[0].Name)
	assert.Equal(t, "H10", got[9].Name)
	for _, s := range got {
		require.NotNil(t, s.DistanceKm)
	}
}

func TestSummarizePutsUnmappedLast(t *testing.T) {
	got := Summarize(patient, []models.Hospital{{Name: "Unmapped"}, hospital("Sion Hospital", 19.0433, 72.8617)})
	require.Len(t, got, 2)
	assert.Equal(t, "Sion Hospital", got[0].Name)
	assert.Nil(t, got[1].DistanceKm)
}

func TestRecommendErrors(t *testing.T) {
	empty := fakeSource{activeFn: func(context.Context, string) ([]models.Hospital, error) { return nil, nil }}
	some := fakeSource{activeFn: func(context.Context, string) ([]models.Hospital, error) {
		return []models.Hospital{hospital("KEM Hospital", 19.0030, 72.8417)}, nil
	}}
	upstream := pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("timeout"), "calling llm")

	tests := []struct {
		name      string
		source    HospitalSource
		completer *fakeCompleter
		req       Request
		code      pkgerrors.Code
	}{
		{name: "not configured", source: some, completer: &fakeCompleter{}, req: Request{PatientDescription: "x", Location: &patient}, code: pkgerrors.CodeNotConfigured},
		{name: "missing description", source: some, completer: &fakeCompleter{enabled: true}, req: Request{Location: &patient}, code: pkgerrors.CodeValidation},
		{name: "missing location", source: some, completer: &fakeCompleter{enabled: true}, req: Request{PatientDescription: "x"}, code: pkgerrors.CodeValidation},
		{name: "no hospitals", source: empty, completer: &fakeCompleter{enabled: true}, req: Request{PatientDescription: "x", Location: &patient}, code: pkgerrors.CodeNotFound},
		{name: "upstream failure", source: some, completer: &fakeCompleter{enabled: true, err: upstream}, req: Request{PatientDescription: "x", Location: &patient}, code: pkgerrors.CodeDependency},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewService(tt.source, tt.completer, nil)
			require.NoError(t, err)
			_, err = svc.Recommend(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.code, pkgerrors.CodeOf(err))
		})
	}
}
