package prompts

import (
	"fmt"
	"strings"
)

func init() {
	RegisterSpec(Spec{
		Name:    PromptSceneHTML,
		Version: 1,
		System: `You are an expert Three.js developer. You produce one complete,
self-contained HTML document and nothing else.`,
		User: `Create an immersive, visually stunning Three.js 3D experience.

SCENE: {{.Title}}
THEME: {{.Mood}} | COLOR: {{.ThemeColor}} | SUBJECT: {{.SubjectArea}}

MODELS (each has id, name, url, description, narration_text, audio_url):
{{.SceneJSON}}

IMPORTANT: each model has an audio_url field - you MUST use it to play
narration audio on click.

REQUIRED LIBRARIES (include in this exact order):
<script src="https://cdnjs.cloudflare.com/ajax/libs/gsap/3.12.2/gsap.min.js"></script>
<script type="importmap">
{"imports":{"three":"https://cdn.jsdelivr.net/npm/three@0.160.0/build/three.module.js","three/addons/":"https://cdn.jsdelivr.net/npm/three@0.160.0/examples/jsm/"}}
</script>
Import: THREE, OrbitControls, GLTFLoader, EffectComposer, RenderPass, UnrealBloomPass

VISUAL EFFECTS (implement all):
1. Animated background: 200+ particle stars using THREE.Points that
   slowly drift and twinkle, deep gradient from #0a0a1a to #1a1a3a or
   the theme color.
2. Cinematic lighting: soft ambient light (0.4), warm key directional
   light with shadows, 2-3 colored point lights matching the theme.
3. Post-processing: UnrealBloomPass (strength 0.5, radius 0.5,
   threshold 0.8).
4. Continuous model animation: gentle float (position.y sine wave),
   slow rotation, subtle emissive pulse.

INTERACTIONS (use GSAP for all animations):
- Hover: scale model to 1.15 with back.out ease, raise emissive
  intensity, show a floating tooltip near the cursor.
- Click: fly the camera toward the model (power2.inOut, ~1.5s), pulse
  the model, dim the other models to 0.3 opacity, slide in an info
  panel with a glassmorphism effect, and play the narration:
  if(currentAudio) currentAudio.pause();
  currentAudio = new Audio(model.userData.audio_url);
  currentAudio.play().catch(e => console.log('Audio:', e));
- Click empty space: restore camera, opacity and panel.

UI:
- Title top center with a soft text-shadow glow.
- Info panel with backdrop-filter blur, rgba background, border glow.
- Centered loading spinner with "Loading Experience..." text.
- Help hint "Click models to explore. Drag to rotate" that fades after
  five seconds.

TECHNICAL:
- Single self-contained HTML file.
- Use Raycaster for mouse picking.
- Responsive, mobile touch works, 60fps animation loop.
- Handle model load errors gracefully.

OUTPUT: complete HTML only. Start with <!DOCTYPE html>, end with
</html>. No markdown, no explanations.`,
		Validators: []Validator{
			func(in Input) error {
				if strings.TrimSpace(in.SceneJSON) == "" {
					return fmt.Errorf("empty scene payload")
				}
				return nil
			},
		},
	})
}
