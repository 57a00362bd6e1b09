package formats

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"trajectory-service/internal/models"
)

// ContentTypeKML is the media type of KML downloads.
const ContentTypeKML = "application/vnd.google-earth.kml+xml"

type kmlDocument struct {
	XMLName    xml.Name       `xml:"kml"`
	Namespace  string         `xml:"xmlns,attr"`
	Name       string         `xml:"Document>name"`
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
}

type kmlPlacemark struct {
	Name       string         `xml:"name"`
	LineString *kmlLineString `xml:"LineString,omitempty"`
	Point      *kmlPoint      `xml:"Point,omitempty"`
}

type kmlLineString struct {
	AltitudeMode string `xml:"altitudeMode"`
	Coordinates  string `xml:"coordinates"`
}

type kmlPoint struct {
	Coordinates string `xml:"coordinates"`
}

// KML renders the trajectory as one LineString placemark per stage, plus a
// point placemark for the launch site estimate when present.
func KML(resp *models.PredictionResponse) (data []byte, filename string, err error) {
	doc := kmlDocument{
		Namespace: "http://www.opengis.net/kml/2.2",
		Name:      "Trajectory prediction " + resp.Request.LaunchDatetime,
	}

	for _, stage := range resp.Prediction {
		var coords strings.Builder
		for _, p := range stage.Trajectory {
			fmt.Fprintf(&coords, "%f,%f,%f ", p.Longitude, p.Latitude, p.Altitude)
		}
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name: stage.Stage,
			LineString: &kmlLineString{
				AltitudeMode: "absolute",
				Coordinates:  strings.TrimSpace(coords.String()),
			},
		})
	}
	if resp.LaunchEstimate != nil {
		doc.Placemarks = append(doc.Placemarks, kmlPlacemark{
			Name: "launch_estimate",
			Point: &kmlPoint{
				Coordinates: fmt.Sprintf("%f,%f,%f", resp.LaunchEstimate.Longitude,
					resp.LaunchEstimate.Latitude, resp.LaunchEstimate.Altitude),
			},
		})
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", errors.Wrap(err, "could not marshal kml document")
	}
	data = append([]byte(xml.Header), body...)
	return data, filenameStem(resp) + ".kml", nil
}
