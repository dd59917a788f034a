package canvas

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/treeflow/pkg/render/shape"
	"github.com/matzehuels/treeflow/pkg/render/styles"
)

const nodeInteractionCSS = `
    .node { cursor: pointer; }
    .node-rect { transition: stroke 0.15s ease, stroke-width 0.15s ease; }
    .node.hover .node-rect { stroke: %[1]s; filter: url(#shadow-hover); }
    .node.selected .node-rect { stroke: %[2]s; stroke-width: 3; }
    .edge { pointer-events: none; }`

const nodeInteractionJS = `
    (function () {
      var svg = document.currentScript ? document.currentScript.ownerSVGElement : document.querySelector('svg');
      svg = svg || document.documentElement;
      document.querySelectorAll('.node').forEach(function (el) {
        el.addEventListener('mouseenter', function () { el.classList.add('hover'); });
        el.addEventListener('mouseleave', function () { el.classList.remove('hover'); });
        el.addEventListener('click', function (ev) {
          ev.stopPropagation();
          var on = !el.classList.contains('selected');
          document.querySelectorAll('.node.selected').forEach(function (n) { n.classList.remove('selected'); });
          el.classList.toggle('selected', on);
        });
      });
      function box() { return svg.getAttribute('viewBox').split(/\s+/).map(Number); }
      function set(b) { svg.setAttribute('viewBox', b.join(' ')); }
      svg.addEventListener('wheel', function (ev) {
        ev.preventDefault();
        var b = box(), k = ev.deltaY > 0 ? 1.1 : 1 / 1.1;
        var cx = b[0] + b[2] / 2, cy = b[1] + b[3] / 2;
        set([cx - b[2] * k / 2, cy - b[3] * k / 2, b[2] * k, b[3] * k]);
      }, { passive: false });
      var drag = null;
      svg.addEventListener('mousedown', function (ev) { drag = { x: ev.clientX, y: ev.clientY, b: box() }; });
      window.addEventListener('mouseup', function () { drag = null; });
      window.addEventListener('mousemove', function (ev) {
        if (!drag) return;
        var r = svg.getBoundingClientRect(), b = drag.b;
        var dx = (ev.clientX - drag.x) * b[2] / r.width, dy = (ev.clientY - drag.y) * b[3] / r.height;
        set([b[0] - dx, b[1] - dy, b[2], b[3]]);
      });
    })();`

// write renders the current scene as a standalone SVG document.
func (s *SVG) write() []byte {
	vb := s.viewBox

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		vb.X, vb.Y, vb.W, vb.H, vb.W, vb.H)

	filters := s.writeDefs(&buf)

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range s.scene.Edges {
		fmt.Fprintf(&buf, `    <path class="edge" data-source="%s" data-target="%s" d="%s" fill="none" stroke="%s" stroke-width="1"/>`+"\n",
			styles.EscapeXML(e.Source), styles.EscapeXML(e.Target), e.Path.D(), styles.EscapeXML(s.palette.Edge))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.scene.Nodes {
		classes := "node"
		if n.State != shape.StateDefault {
			classes += " " + string(n.State)
		}
		fmt.Fprintf(&buf, `    <g class="%s" id="node-%s" data-id="%s" data-state="%s" transform="translate(%.2f %.2f)">`+"\n",
			classes, styles.EscapeXML(n.ID), styles.EscapeXML(n.ID), n.State, n.Box.X, n.Box.Y)
		for _, sh := range n.Shapes {
			writeShape(&buf, sh, filters)
		}
		buf.WriteString("    </g>\n")
	}
	buf.WriteString("  </g>\n")

	if s.interactive {
		fmt.Fprintf(&buf, "  <style>"+nodeInteractionCSS+"\n  </style>\n",
			styles.EscapeXML(s.palette.Hover), styles.EscapeXML(s.palette.Selected))
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", nodeInteractionJS)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type shadowKey struct {
	color string
	blur  float64
}

// writeDefs emits one drop-shadow filter per distinct shadow in the scene
// and returns their ids.
func (s *SVG) writeDefs(buf *bytes.Buffer) map[shadowKey]string {
	filters := make(map[shadowKey]string)
	var order []shadowKey
	for _, n := range s.scene.Nodes {
		for _, sh := range n.Shapes {
			if sh.Shadow == nil {
				continue
			}
			k := shadowKey{sh.Shadow.Color, sh.Shadow.Blur}
			if _, ok := filters[k]; !ok {
				filters[k] = fmt.Sprintf("shadow-%d", len(order))
				order = append(order, k)
			}
		}
	}

	buf.WriteString("  <defs>\n")
	for _, k := range order {
		writeShadowFilter(buf, filters[k], k)
	}
	if s.interactive {
		writeShadowFilter(buf, "shadow-hover", shadowKey{s.palette.Shadow, 10})
	}
	buf.WriteString("  </defs>\n")
	return filters
}

func writeShadowFilter(buf *bytes.Buffer, id string, k shadowKey) {
	fmt.Fprintf(buf, `    <filter id="%s" x="-20%%" y="-20%%" width="140%%" height="140%%"><feDropShadow dx="0" dy="0" stdDeviation="%.1f" flood-color="%s"/></filter>`+"\n",
		id, k.blur/2, styles.EscapeXML(k.color))
}

func writeShape(buf *bytes.Buffer, sh shape.Shape, filters map[shadowKey]string) {
	g := sh.Geometry
	switch sh.Kind {
	case shape.KindRect:
		fmt.Fprintf(buf, `      <rect class="node-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s"`,
			sh.Layer, g.X, g.Y, g.W, g.H, g.Radius, styles.EscapeXML(sh.Fill))
		if sh.Stroke != nil {
			fmt.Fprintf(buf, ` stroke="%s" stroke-width="%.1f"`, styles.EscapeXML(sh.Stroke.Color), sh.Stroke.Width)
		}
		if sh.Shadow != nil {
			fmt.Fprintf(buf, ` filter="url(#%s)"`, filters[shadowKey{sh.Shadow.Color, sh.Shadow.Blur}])
		}
		buf.WriteString("/>\n")
	case shape.KindText:
		t := sh.Text
		fmt.Fprintf(buf, `      <text class="node-%s" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="%s" font-family="sans-serif" font-size="%.0f" font-weight="%s" fill="%s">%s</text>`+"\n",
			sh.Layer, g.X, g.Y, textAnchor(t.Align), baseline(t.Baseline), t.FontSize, t.Weight, styles.EscapeXML(sh.Fill), styles.EscapeXML(t.Content))
	}
}

func textAnchor(a shape.Align) string {
	switch a {
	case shape.AlignLeft:
		return "start"
	case shape.AlignRight:
		return "end"
	default:
		return "middle"
	}
}

func baseline(b shape.Baseline) string {
	if b == shape.BaselineAlphabetic {
		return "alphabetic"
	}
	return "middle"
}
