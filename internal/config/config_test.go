package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProjectShippedFile(t *testing.T) {
	p, err := LoadProject(filepath.Join("..", "..", "config", "project_configuration.yml"))
	require.NoError(t, err)

	assert.Equal(t, "Appeals", p.Appeals.Heading)
	assert.Equal(t, "#status+name", p.WhoWhatWhere.HXLTags["status_display"])
	assert.Equal(t, "Kosovo", p.CountryNames["XKX"])
	assert.Contains(t, p.Appeals.ShowcaseURLs.Country, "{id}")
}

func validProject() Project {
	feed := FeedConfig{URLPath: "x/", Filename: "x_{index}.json", Heading: "X"}
	return Project{
		BaseURL:         "https://api.test/",
		GetParams:       "?format=json",
		Organisation:    "org",
		UpdateFrequency: "Every week",
		Countries:       FeedConfig{URLPath: "country/", Filename: "countries_{index}.json"},
		Appeals:         feed,
		WhoWhatWhere:    feed,
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *Project)
		want   error
	}{
		{"valid", func(p *Project) {}, nil},
		{"missing base url", func(p *Project) { p.BaseURL = " " }, ErrMissingBaseURL},
		{"missing organisation", func(p *Project) { p.Organisation = "" }, ErrMissingOrg},
		{"missing frequency", func(p *Project) { p.UpdateFrequency = "" }, ErrMissingFrequency},
		{"missing path", func(p *Project) { p.Appeals.URLPath = "" }, ErrMissingURLPath},
		{"missing filename", func(p *Project) { p.Countries.Filename = "" }, ErrMissingFilename},
		{"filename without index", func(p *Project) { p.WhoWhatWhere.Filename = "w.json" }, ErrMissingIndex},
		{"published feed without heading", func(p *Project) { p.Appeals.Heading = "" }, ErrMissingHeading},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validProject()
			tc.mutate(&p)
			err := p.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadProjectErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadProject(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("base_url: [unclosed"), 0o600))
	_, err = LoadProject(bad)
	require.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yml")
	require.NoError(t, os.WriteFile(invalid, []byte("base_url: https://x/\n"), 0o600))
	_, err = LoadProject(invalid)
	require.ErrorIs(t, err, ErrMissingOrg)
}

func TestURLs(t *testing.T) {
	p := validProject()
	p.Appeals.AdditionalParams = "&end_date__gt="
	p.WhoWhatWhere.URLPath = "project/"

	assert.Equal(t, "https://api.test/country/?format=json", p.CountriesURL())
	assert.Equal(t, "https://api.test/x/?format=json&end_date__gt=2024-05-01T00:00:00", p.AppealsURL("2024-05-01"))
	assert.Equal(t, "https://api.test/project/?format=json", p.WhoWhatWhereURL())
}

func TestLoadSFTP(t *testing.T) {
	t.Setenv("SFTP_HOST", "sftp.test")
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("SFTP_USER", "u")
	t.Setenv("SFTP_PASS", "p")
	t.Setenv("SFTP_DIR", "")
	t.Setenv("SFTP_INSECURE_IGNORE_HOSTKEY", "not-a-bool")

	cfg := LoadSFTP()
	assert.Equal(t, "sftp.test", cfg.Host)
	assert.Equal(t, 2222, cfg.Port)
	assert.Equal(t, "/inbound", cfg.Dir)
	assert.False(t, cfg.InsecureIgnoreHostKey)

	t.Setenv("SFTP_PORT", "nope")
	t.Setenv("SFTP_INSECURE_IGNORE_HOSTKEY", "true")
	cfg = LoadSFTP()
	assert.Equal(t, 22, cfg.Port)
	assert.True(t, cfg.InsecureIgnoreHostKey)
	assert.True(t, cfg.Enabled())

	t.Setenv("SFTP_HOST", "")
	assert.False(t, LoadSFTP().Enabled())
}

func TestRuntimeValidate(t *testing.T) {
	r := Runtime{ProjectConfig: "p.yml", OutputDir: "out", StateDB: "state.db"}
	require.NoError(t, r.Validate())

	missing := r
	missing.ProjectConfig = ""
	require.ErrorIs(t, missing.Validate(), ErrMissingProjectConfig)

	missing = r
	missing.OutputDir = ""
	require.ErrorIs(t, missing.Validate(), ErrMissingOutputDir)

	missing = r
	missing.StateDB = ""
	require.ErrorIs(t, missing.Validate(), ErrMissingStateDB)
}
