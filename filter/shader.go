package filter

// DefaultFragmentTextureCoordinateName is the varying through which the
// default vertex shader passes texture coordinates to fragment shaders.
const DefaultFragmentTextureCoordinateName = "vTextureCoord"

const yellowKeepFragmentShader = `#extension GL_OES_EGL_image_external : require
precision mediump float;
uniform samplerExternalOES sTexture;
varying vec2 ` + DefaultFragmentTextureCoordinateName + `;
void main() {
  vec4 color = texture2D(sTexture, ` + DefaultFragmentTextureCoordinateName + `);
  float gray = dot(color.rgb, vec3(0.299, 0.587, 0.114));

  float maxC = max(max(color.r, color.g), color.b);
  float minC = min(min(color.r, color.g), color.b);
  float delta = maxC - minC;

  float hue = 0.0;
  if (delta != 0.0) {
    if (maxC == color.r) {
      hue = mod((color.g - color.b) / delta, 6.0);
    } else if (maxC == color.g) {
      hue = (color.b - color.r) / delta + 2.0;
    } else {
      hue = (color.r - color.g) / delta + 4.0;
    }
    hue = hue * 60.0;
  }
  float sat = maxC == 0.0 ? 0.0 : delta / maxC;

  bool byHue = hue >= 45.0 && hue <= 75.0 && sat > 0.3 && maxC > 0.2;
  bool byChannel = color.r > 0.4 && color.g > 0.4 && color.b < 0.3 &&
                   color.r > color.b && color.g > color.b;

  if (byHue || byChannel) {
    gl_FragColor = color;
  } else {
    gl_FragColor = vec4(gray, gray, gray, color.a);
  }
}
`

const grayscaleFragmentShader = `precision mediump float;
uniform sampler2D sTexture;
varying vec2 ` + DefaultFragmentTextureCoordinateName + `;
void main() {
  vec4 color = texture2D(sTexture, ` + DefaultFragmentTextureCoordinateName + `);
  float gray = dot(color.rgb, vec3(0.299, 0.587, 0.114));
  gl_FragColor = vec4(vec3(gray), color.a);
}
`
