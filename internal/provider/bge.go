package provider

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// bgeEnvelope is the SOAP request body for the outage info web service.
// Credentials ride in a WS-Security UsernameToken header.
const bgeEnvelope = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:out="http://Constellation.BGE.com/OutageInfoWebService">
	<soapenv:Header>
		<wsse:Security xmlns:wsse="http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd">
			<wsse:UsernameToken>
				<wsse:Username>%s</wsse:Username>
				<wsse:Password>%s</wsse:Password>
			</wsse:UsernameToken>
		</wsse:Security>
	</soapenv:Header>
	<soapenv:Body>
		<out:GetCountyAndZipCodeData/>
	</soapenv:Body>
</soapenv:Envelope>`

// BGEConfig holds the SOAP endpoint and credentials.
type BGEConfig struct {
	PostURI    string
	SOAPAction string
	Username   string
	Password   string
}

// BGE fetches outage data over the provider's SOAP service. Unlike the
// other providers there is no metadata or date feed; one POST returns
// county and zip data plus the creation timestamp in a single document.
type BGE struct {
	client *Client
	style  domain.AreaType
	cfg    BGEConfig
	logger *slog.Logger
}

func NewBGE(client *Client, style domain.AreaType, cfg BGEConfig, logger *slog.Logger) *BGE {
	return &BGE{client: client, style: style, cfg: cfg, logger: logger}
}

func (b *BGE) Provider() string       { return BGEAbbrev }
func (b *BGE) Style() domain.AreaType { return b.style }

func (b *BGE) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(BGEAbbrev, b.style)

	body := fmt.Sprintf(bgeEnvelope, b.cfg.Username, b.cfg.Password)
	headers := map[string]string{
		"SOAPAction": b.cfg.SOAPAction,
		"charset":    "utf-8",
	}
	resp, err := b.client.Post(ctx, b.cfg.PostURI, "text/xml", body, headers)
	if err != nil {
		return Result{State: state}, err
	}
	state.DataStatus = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		b.logger.Warn("data feed unavailable", "provider", BGEAbbrev, "style", b.style, "status", resp.StatusCode)
		return Result{State: state}, nil
	}

	outages, created, err := parseBGEDocument(resp.Body)
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse BGE %s feed: %w", b.style, err)
	}
	state.SetDateCreated(created)

	reports := make([]domain.Report, 0, len(outages))
	for _, o := range outages {
		area := o.County
		customers := o.CustomersServed
		if b.style == domain.Zip {
			area = o.ZipCode
			// customers served is not reported per zip code
			customers = fmt.Sprintf("%d", domain.UnknownCount)
		}
		reports = append(reports, domain.Report{
			Provider:  BGEAbbrev,
			Style:     b.style,
			Area:      area,
			Outages:   o.CustomersOut,
			Customers: customers,
			State:     domain.Maryland,
		})
	}
	return Result{Reports: reports, State: state}, nil
}

type bgeOutage struct {
	County          string `xml:"County"`
	ZipCode         string `xml:"ZipCode"`
	CustomersOut    string `xml:"CustomersOut"`
	CustomersServed string `xml:"CustomersServed"`
}

// parseBGEDocument walks the SOAP response for Outage elements and the
// document-level CreateDateTime, ignoring the envelope wrapper since its
// structure is not under our control.
func parseBGEDocument(body []byte) ([]bgeOutage, string, error) {
	var (
		outages []bgeOutage
		created string
	)

	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("read token: %w", err)
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "Outage":
			var o bgeOutage
			if err := dec.DecodeElement(&o, &se); err != nil {
				return nil, "", fmt.Errorf("decode outage element: %w", err)
			}
			outages = append(outages, o)
		case "CreateDateTime":
			if created != "" {
				continue
			}
			if err := dec.DecodeElement(&created, &se); err != nil {
				return nil, "", fmt.Errorf("decode create date: %w", err)
			}
		}
	}
	return outages, created, nil
}
