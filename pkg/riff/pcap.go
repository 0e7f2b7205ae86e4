package riff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/joshuapare/riffkit/pkg/types"
)

var headerEnd = []byte("\r\n\r\n")

// PcapHit is one container found in a captured packet.
type PcapHit struct {
	Frame     int // 1-based frame number in the capture
	Timestamp time.Time
	Flow      string // "src:port -> dst:port"
	Offset    int    // offset of the container within the transport payload
	MediaType string // Content-Type of the enclosing HTTP message, if any
	Result    *Result
}

// ScanPcap reads an offline capture (pcap format) and probes every TCP and
// UDP payload for a known container, first as-is and then as an HTTP message
// body. When an HTTP Content-Type names a registered format, the body is
// dissected with that format even if the probe rejects it. Segments are
// probed individually; no stream reassembly is done.
//
// It returns the number of frames read. fn is called once per hit, in
// capture order; a non-nil error from fn stops the scan.
func (d *Dissector) ScanPcap(r io.Reader, fn func(PcapHit) error) (int, error) {
	pr, err := pcapgo.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("read pcap header: %w", err)
	}
	src := gopacket.NewPacketSource(pr, pr.LinkType())
	src.DecodeOptions = gopacket.DecodeOptions{Lazy: true, NoCopy: true}

	frames := 0
	for {
		packet, err := src.NextPacket()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, fmt.Errorf("read frame %d: %w", frames+1, err)
		}
		frames++

		hit, ok := d.probePacket(packet)
		if !ok {
			continue
		}
		hit.Frame = frames
		hit.Timestamp = packet.Metadata().Timestamp
		d.log.Debug().Int("frame", frames).Str("flow", hit.Flow).Str("format", hit.Result.Format).Msg("pcap hit")
		if err := fn(hit); err != nil {
			return frames, err
		}
	}
}

func (d *Dissector) probePacket(packet gopacket.Packet) (PcapHit, bool) {
	var (
		payload      []byte
		sport, dport uint16
	)
	switch t := packet.TransportLayer().(type) {
	case *layers.TCP:
		payload, sport, dport = t.LayerPayload(), uint16(t.SrcPort), uint16(t.DstPort)
	case *layers.UDP:
		payload, sport, dport = t.LayerPayload(), uint16(t.SrcPort), uint16(t.DstPort)
	default:
		return PcapHit{}, false
	}
	if len(payload) == 0 {
		return PcapHit{}, false
	}
	hit := PcapHit{Flow: flowString(packet.NetworkLayer(), sport, dport)}

	if res, err := d.engine.DissectAny(payload); err == nil {
		hit.Result = res
		return hit, true
	}

	end := bytes.Index(payload, headerEnd)
	if end < 0 {
		return PcapHit{}, false
	}
	body := payload[end+len(headerEnd):]
	hit.Offset = end + len(headerEnd)
	hit.MediaType = contentType(payload[:end+len(headerEnd)])

	if desc, ok := d.engine.Registry().ByMediaType(hit.MediaType); ok {
		res, err := d.engine.Dissect(desc, body)
		if err == nil {
			hit.Result = res
			return hit, true
		}
	}
	res, err := d.engine.DissectAny(body)
	if err != nil {
		if !errors.Is(err, types.ErrUnknownFormat) {
			d.log.Debug().Err(err).Str("flow", hit.Flow).Msg("http body rejected")
		}
		return PcapHit{}, false
	}
	hit.Result = res
	return hit, true
}

// contentType extracts the Content-Type header from an HTTP message head
// (request or status line, then MIME headers).
func contentType(head []byte) string {
	tp := textproto.NewReader(bufio.NewReader(bytes.NewReader(head)))
	if _, err := tp.ReadLine(); err != nil {
		return ""
	}
	hdr, err := tp.ReadMIMEHeader()
	if err != nil && len(hdr) == 0 {
		return ""
	}
	return hdr.Get("Content-Type")
}

func flowString(nl gopacket.NetworkLayer, sport, dport uint16) string {
	if nl == nil {
		return fmt.Sprintf(":%d -> :%d", sport, dport)
	}
	src, dst := nl.NetworkFlow().Endpoints()
	return fmt.Sprintf("%s:%d -> %s:%d", src, sport, dst, dport)
}
