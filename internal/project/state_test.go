package project

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"

	"github.com/wtlab/wtproj/internal/logging"
)

const projectA = `{
    "reservoir": {"porosity": 0.12, "thickness": 35.5, "wellRadius": 0.09, "productionRate": 80},
    "pvt": {"viscosity": 1.2, "volumeFactor": 1.3, "compressibility": 0.0007},
    "note": "x"
}`

func newTestState(t *testing.T) (*State, afero.Fs, *logging.TestLogger) {
	t.Helper()
	fs := afero.NewMemMapFs()
	tl := logging.NewTestLogger()
	return New(WithFs(fs), WithLogger(tl.Logger)), fs, tl
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readDoc(t *testing.T, fs afero.Fs, path string) map[string]any {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

func TestNew_Defaults(t *testing.T) {
	s, _, _ := newTestState(t)

	if got := s.Parameters(); got != DefaultParameters() {
		t.Errorf("expected defaults %+v, got %+v", DefaultParameters(), got)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"phi", s.Phi(), 0.05},
		{"h", s.H(), 20.0},
		{"mu", s.Mu(), 0.5},
		{"B", s.B(), 1.05},
		{"Ct", s.Ct(), 5e-4},
		{"q", s.Q(), 50.0},
		{"rw", s.Rw(), 0.1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
	if s.HasLoadedProject() {
		t.Error("expected HasLoadedProject false on a fresh state")
	}
	if s.ProjectPath() != "" || s.ProjectFilePath() != "" {
		t.Errorf("expected empty paths, got %q / %q", s.ProjectPath(), s.ProjectFilePath())
	}
	if len(s.FittingResult()) != 0 {
		t.Error("expected empty fitting result")
	}
}

func TestInstance_Shared(t *testing.T) {
	if Instance() != Instance() {
		t.Error("expected Instance to return the same State on every call")
	}
}

func TestLoadProject(t *testing.T) {
	s, fs, tl := newTestState(t)
	writeFile(t, fs, "/wells/a/proj.wtproj", projectA)

	if err := s.LoadProject("/wells/a/proj.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := ParameterSet{
		Porosity: 0.12, Thickness: 35.5, WellRadius: 0.09, ProductionRate: 80,
		Viscosity: 1.2, VolumeFactor: 1.3, Compressibility: 0.0007,
	}
	if got := s.Parameters(); got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
	if !s.HasLoadedProject() {
		t.Error("expected HasLoadedProject true after load")
	}
	if s.ProjectPath() != "/wells/a" {
		t.Errorf("expected /wells/a, got %s", s.ProjectPath())
	}
	if s.ProjectFilePath() != "/wells/a/proj.wtproj" {
		t.Errorf("expected /wells/a/proj.wtproj, got %s", s.ProjectFilePath())
	}
	tl.AssertField(t, "project parameters loaded", "dir", "/wells/a")
	tl.AssertLogged(t, logging.TraceLevel, "project file read")
	tl.AssertField(t, "project file read", "path", "/wells/a/proj.wtproj")
}

func TestLoadProject_MissingFieldsFallBack(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/p.wtproj", `{
        "reservoir": {"porosity": 0.2, "thickness": 10, "productionRate": "lots"},
        "pvt": {"viscosity": 2}
    }`)

	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Rw() != 0.1 {
		t.Errorf("expected default rw 0.1, got %v", s.Rw())
	}
	if s.Q() != 50.0 {
		t.Errorf("expected default q 50 for non-numeric value, got %v", s.Q())
	}
	if s.B() != 1.05 || s.Ct() != 5e-4 {
		t.Errorf("expected default B and Ct, got %v and %v", s.B(), s.Ct())
	}
	if s.Phi() != 0.2 || s.Mu() != 2 {
		t.Errorf("expected loaded phi 0.2 and mu 2, got %v and %v", s.Phi(), s.Mu())
	}
}

func TestLoadProject_EmptyObject(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/empty.wtproj", `{}`)

	if err := s.LoadProject("/empty.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Parameters() != DefaultParameters() {
		t.Errorf("expected defaults, got %+v", s.Parameters())
	}
	if !s.HasLoadedProject() {
		t.Error("expected HasLoadedProject true")
	}
}

func TestLoadProject_FailureLeavesStateUntouched(t *testing.T) {
	tests := []struct {
		name    string
		content string // empty means the file does not exist
		wantErr error
	}{
		{"missing file", "", ErrOpen},
		{"garbage", "{not json", ErrMalformed},
		{"array root", `[1, 2, 3]`, ErrMalformed},
		{"null root", `null`, ErrMalformed},
		{"empty file", " ", ErrMalformed},
		{"trailing data", `{"a": 1} {"b": 2}`, ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, fs, tl := newTestState(t)
			writeFile(t, fs, "/a/proj.wtproj", projectA)
			if err := s.LoadProject("/a/proj.wtproj"); err != nil {
				t.Fatalf("loading project A: %v", err)
			}
			before := s.Parameters()
			beforeDoc := s.Document()

			if tt.content != "" {
				writeFile(t, fs, "/b/bad.wtproj", tt.content)
			}
			err := s.LoadProject("/b/bad.wtproj")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if s.Parameters() != before {
				t.Errorf("parameters changed: %+v -> %+v", before, s.Parameters())
			}
			if s.ProjectPath() != "/a" {
				t.Errorf("expected project path /a, got %s", s.ProjectPath())
			}
			if s.ProjectFilePath() != "/a/proj.wtproj" {
				t.Errorf("expected file path /a/proj.wtproj, got %s", s.ProjectFilePath())
			}
			if s.Document()["note"] != beforeDoc["note"] {
				t.Error("cached document changed after failed load")
			}
			tl.AssertLogged(t, zapcore.WarnLevel, "project file")
		})
	}
}

func TestLoadProject_FailureOnFreshState(t *testing.T) {
	s, _, _ := newTestState(t)
	if err := s.LoadProject("/nowhere.wtproj"); err == nil {
		t.Fatal("expected error")
	}
	if s.HasLoadedProject() {
		t.Error("expected HasLoadedProject to stay false")
	}
}

func TestSaveFittingResult_PreservesUnknownKeys(t *testing.T) {
	s, fs, tl := newTestState(t)
	writeFile(t, fs, "/a/proj.wtproj", projectA)
	if err := s.LoadProject("/a/proj.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.SaveFittingResult(map[string]any{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := readDoc(t, fs, "/a/proj.wtproj")
	if doc["note"] != "x" {
		t.Errorf("expected note x to survive, got %v", doc["note"])
	}
	fitting, ok := doc["fitting"].(map[string]any)
	if !ok || len(fitting) != 0 {
		t.Errorf("expected empty fitting object, got %v", doc["fitting"])
	}
	reservoir := doc["reservoir"].(map[string]any)
	if reservoir["porosity"] != 0.12 {
		t.Errorf("expected porosity 0.12, got %v", reservoir["porosity"])
	}
	tl.AssertLogged(t, zapcore.InfoLevel, "fitting result saved")
}

func TestSaveFittingResult_KeepsNumbersVerbatim(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/p.wtproj", `{"big": 12345678901234567890, "reservoir": {}}`)
	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveFittingResult(map[string]any{"r2": 0.9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, _ := afero.ReadFile(fs, "/p.wtproj")
	doc, err := ParseDocument(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc["big"].(json.Number).String(); got != "12345678901234567890" {
		t.Errorf("expected big number preserved, got %s", got)
	}
}

func TestSaveFittingResult_Overwrites(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/p.wtproj", `{"fitting": {"r2": 0.5, "old": true}}`)
	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.FittingResult(); got["old"] != true {
		t.Errorf("expected loaded fitting block, got %v", got)
	}

	if err := s.SaveFittingResult(map[string]any{"r2": 0.99}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := s.FittingResult()
	if _, ok := got["old"]; ok {
		t.Error("expected fitting block to be replaced, not merged")
	}
	if got["r2"] != 0.99 {
		t.Errorf("expected r2 0.99, got %v", got["r2"])
	}
}

func TestSaveFittingResult_NoProjectIsNoop(t *testing.T) {
	s, fs, tl := newTestState(t)

	if err := s.SaveFittingResult(map[string]any{"r2": 0.9}); err != nil {
		t.Fatalf("expected silent no-op, got %v", err)
	}
	if len(s.FittingResult()) != 0 {
		t.Errorf("expected fitting result unchanged, got %v", s.FittingResult())
	}
	entries, err := afero.ReadDir(fs, "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
	if len(tl.All()) != 0 {
		t.Errorf("expected nothing reported, got %+v", tl.All())
	}
}

func TestSaveFittingResult_WriteFailureKeepsMemory(t *testing.T) {
	base := afero.NewMemMapFs()
	writeFile(t, base, "/p.wtproj", projectA)
	tl := logging.NewTestLogger()
	s := New(WithFs(afero.NewReadOnlyFs(base)), WithLogger(tl.Logger))

	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.SaveFittingResult(map[string]any{"r2": 0.7})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if got := s.FittingResult()["r2"]; got != 0.7 {
		t.Errorf("expected in-memory fitting to be kept, got %v", got)
	}
	tl.AssertLogged(t, zapcore.ErrorLevel, "saving fitting result failed")
}

func TestFittingResult_ReturnsCopy(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/p.wtproj", `{"fitting": {"params": {"k": 1}}}`)
	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := s.FittingResult()
	got["params"].(map[string]any)["k"] = "mutated"

	again := s.FittingResult()
	if again["params"].(map[string]any)["k"] == "mutated" {
		t.Error("expected FittingResult to return an independent copy")
	}
}

func TestFittingResult_NonObjectIsEmpty(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/p.wtproj", `{"fitting": [1, 2]}`)
	if err := s.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.FittingResult(); len(got) != 0 {
		t.Errorf("expected empty map, got %v", got)
	}
}

func TestSetParameters_SynthesizesDocument(t *testing.T) {
	s, _, _ := newTestState(t)
	p := ParameterSet{
		Porosity: 0.1, Thickness: 15, Viscosity: 0.8, VolumeFactor: 1.2,
		Compressibility: 1e-4, ProductionRate: 30, WellRadius: 0.12,
	}

	s.SetParameters(p, "/wells/new.wtproj")

	if s.Parameters() != p {
		t.Errorf("expected %+v, got %+v", p, s.Parameters())
	}
	if !s.HasLoadedProject() {
		t.Error("expected HasLoadedProject true")
	}
	doc := s.Document()
	reservoir := doc.Object(KeyReservoir)
	if reservoir[keyPorosity] != 0.1 || reservoir[keyWellRadius] != 0.12 || reservoir[keyProductionRate] != 30.0 {
		t.Errorf("unexpected reservoir block %v", reservoir)
	}
	pvt := doc.Object(KeyPVT)
	if pvt[keyViscosity] != 0.8 || pvt[keyVolumeFactor] != 1.2 || pvt[keyCompressibility] != 1e-4 {
		t.Errorf("unexpected pvt block %v", pvt)
	}
	if _, ok := doc[KeyFitting]; ok {
		t.Error("expected no fitting block in a new project")
	}
}

func TestSetParameters_DoesNotClobberLoadedDocument(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/a/proj.wtproj", `{
        "reservoir": {"porosity": 0.3},
        "fitting": {"r2": 0.95},
        "extra": 42
    }`)
	if err := s.LoadProject("/a/proj.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := DefaultParameters()
	p.Porosity = 0.01
	s.SetParameters(p, "/a/proj.wtproj")

	if s.Phi() != 0.01 {
		t.Errorf("expected scalar cache updated to 0.01, got %v", s.Phi())
	}
	doc := s.Document()
	if doc["extra"].(json.Number).String() != "42" {
		t.Errorf("expected extra 42 kept, got %v", doc["extra"])
	}
	if doc.Object(KeyReservoir)[keyPorosity].(json.Number).String() != "0.3" {
		t.Errorf("expected document porosity untouched, got %v", doc.Object(KeyReservoir)[keyPorosity])
	}
	if s.FittingResult()["r2"].(json.Number).String() != "0.95" {
		t.Errorf("expected fitting kept, got %v", s.FittingResult())
	}
}

func TestSetParameters_DirectoryDerivation(t *testing.T) {
	s, fs, _ := newTestState(t)
	writeFile(t, fs, "/a/b/proj.wtproj", projectA)

	s.SetParameters(DefaultParameters(), "/a/b/proj.wtproj")
	if s.ProjectPath() != "/a/b" {
		t.Errorf("expected /a/b, got %s", s.ProjectPath())
	}

	s.SetParameters(DefaultParameters(), "/a/b/newdir")
	if s.ProjectPath() != "/a/b/newdir" {
		t.Errorf("expected /a/b/newdir, got %s", s.ProjectPath())
	}
	if s.ProjectFilePath() != "/a/b/newdir" {
		t.Errorf("expected file path stored verbatim, got %s", s.ProjectFilePath())
	}
}

func TestSetParameters_RealFileSystem(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "proj.wtproj")
	if err := os.WriteFile(file, []byte(projectA), 0644); err != nil {
		t.Fatal(err)
	}

	s := New(WithLogger(logging.NewNop()))
	s.SetParameters(DefaultParameters(), file)
	if s.ProjectPath() != dir {
		t.Errorf("expected %s, got %s", dir, s.ProjectPath())
	}

	// A directory is not a file, so it is used as given.
	s.SetParameters(DefaultParameters(), dir)
	if s.ProjectPath() != dir {
		t.Errorf("expected %s, got %s", dir, s.ProjectPath())
	}
}

func TestSave_WritesNewProject(t *testing.T) {
	s, fs, _ := newTestState(t)
	p := DefaultParameters()
	p.Thickness = 42

	s.SetParameters(p, "/wells/new.wtproj")
	if err := s.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded := New(WithFs(fs), WithLogger(logging.NewNop()))
	if err := loaded.LoadProject("/wells/new.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Parameters() != p {
		t.Errorf("expected %+v after round trip, got %+v", p, loaded.Parameters())
	}
}

func TestSave_NoProjectIsNoop(t *testing.T) {
	s, fs, _ := newTestState(t)
	if err := s.Save(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	entries, _ := afero.ReadDir(fs, "/")
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d", len(entries))
	}
}

func TestSave_NonFiniteParametersWrittenAsNull(t *testing.T) {
	s, fs, _ := newTestState(t)
	p := DefaultParameters()
	p.Porosity = math.NaN()
	p.Thickness = math.Inf(1)
	p.WellRadius = 0.2

	s.SetParameters(p, "/p.wtproj")
	if err := s.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SaveFittingResult(map[string]any{"r2": 0.9, "skin": math.Inf(-1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc := readDoc(t, fs, "/p.wtproj")
	reservoir := doc["reservoir"].(map[string]any)
	if v, ok := reservoir["porosity"]; !ok || v != nil {
		t.Errorf("expected porosity null, got %v", v)
	}
	if v, ok := reservoir["thickness"]; !ok || v != nil {
		t.Errorf("expected thickness null, got %v", v)
	}
	if v := doc["fitting"].(map[string]any)["skin"]; v != nil {
		t.Errorf("expected skin null, got %v", v)
	}

	// In-memory values are untouched by encoding.
	if !math.IsNaN(s.Phi()) {
		t.Errorf("expected cached porosity NaN, got %v", s.Phi())
	}

	loaded := New(WithFs(fs), WithLogger(logging.NewNop()))
	if err := loaded.LoadProject("/p.wtproj"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loaded.Phi() != 0.05 || loaded.H() != 20.0 {
		t.Errorf("expected null values to fall back to defaults, got phi=%v h=%v", loaded.Phi(), loaded.H())
	}
	if loaded.Rw() != 0.2 {
		t.Errorf("expected rw 0.2, got %v", loaded.Rw())
	}
}
