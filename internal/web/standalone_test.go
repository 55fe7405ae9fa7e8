package web

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/gta-evmap/internal/dashboard"
)

func TestWriteStandalone(t *testing.T) {
	view := &dashboard.View{
		Quarter:     "Q2 2024",
		Index:       9,
		Title:       dashboard.Title,
		Description: dashboard.Description("Q2 2024"),
		Canvas:      dashboard.NewCanvas(dashboard.DefaultMapConfig()),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStandalone(&buf, view))

	out := buf.String()
	assert.Contains(t, out, "<h1>"+dashboard.Title+"</h1>")
	assert.Contains(t, out, "an EV sales heatmap for Q2 2024.")
	assert.Contains(t, out, `"quarter":"Q2 2024"`)
}

func TestWriteStandalone_StationPins(t *testing.T) {
	canvas := dashboard.NewCanvas(dashboard.DefaultMapConfig())
	canvas.Layers = append(canvas.Layers, dashboard.Layer{
		Kind: dashboard.LayerLevel3,
		Name: "Level 3 Chargers",
		Markers: []dashboard.Marker{{
			Lat: 43.65, Lon: -79.38, Popup: "City Hall",
			Color: dashboard.Level3Color, Icon: "info-sign",
		}},
	})
	view := &dashboard.View{Quarter: "Q1 2022", Title: dashboard.Title, Canvas: canvas}

	var buf bytes.Buffer
	require.NoError(t, WriteStandalone(&buf, view))

	out := buf.String()
	assert.Contains(t, out, "L.AwesomeMarkers.icon")
	assert.Contains(t, out, "leaflet.awesome-markers.js")
	assert.Contains(t, out, `"color":"green"`)
	assert.Contains(t, out, `"icon":"info-sign"`)
	assert.NotContains(t, out, "circleMarker")
}

func TestWriteStandalone_NilView(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteStandalone(&buf, nil))
}
