package renderer

// Attribute locations shared by every program.
const (
	attribPosition = 0
	attribNormal   = 1
	attribTexCoord = 2
	attribColor    = 3
	attribBone     = 4
	attribInstance = 4 // mat4 occupies 4..7
)

// boneBlockBinding is the uniform buffer slot of the skinning palette.
const boneBlockBinding = 0

// shadowTextureUnit is where the sun depth map is bound.
const shadowTextureUnit int32 = 1

const depthFragment = `
#version 410 core

void main() {
}
`

const litFragment = `
#version 410 core

in vec3 vNormal;
in vec4 vColor;
in vec3 vWorld;

uniform vec3 uSunDir;
uniform vec3 uSunColor;
uniform vec3 uAmbient;
uniform vec4 uTint;
uniform vec3 uCameraPos;
uniform vec3 uFogColor;
uniform float uFogStart;
uniform float uFogEnd;
uniform sampler2DShadow uShadowMap;
uniform mat4 uLightViewProj;
uniform float uShadowStrength;

out vec4 FragColor;

float sunVisibility(vec3 normal) {
	if (uShadowStrength <= 0.0) {
		return 1.0;
	}
	vec4 light = uLightViewProj * vec4(vWorld, 1.0);
	vec3 coord = light.xyz / light.w * 0.5 + 0.5;
	if (coord.z > 1.0) {
		return 1.0;
	}
	float bias = max(0.002 * (1.0 - dot(normal, uSunDir)), 0.0005);
	vec2 texel = 1.0 / vec2(textureSize(uShadowMap, 0));
	float lit = 0.0;
	for (int x = -1; x <= 1; x++) {
		for (int y = -1; y <= 1; y++) {
			lit += texture(uShadowMap, vec3(coord.xy + vec2(x, y) * texel, coord.z - bias));
		}
	}
	return mix(1.0, lit / 9.0, uShadowStrength);
}

void main() {
	vec3 normal = normalize(vNormal);
	float diffuse = max(dot(normal, uSunDir), 0.0) * sunVisibility(normal);
	vec3 color = vColor.rgb * uTint.rgb * (uAmbient + uSunColor * diffuse);
	float dist = length(vWorld - uCameraPos);
	float fog = clamp((dist - uFogStart) / max(uFogEnd - uFogStart, 0.001), 0.0, 1.0);
	FragColor = vec4(mix(color, uFogColor, fog), vColor.a * uTint.a);
}
`

const staticVertex = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 3) in vec4 aColor;

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec4 vColor;
out vec3 vWorld;

void main() {
	vec4 world = uModel * vec4(aPosition, 1.0);
	vWorld = world.xyz;
	vNormal = mat3(uModel) * aNormal;
	vColor = aColor;
	gl_Position = uViewProj * world;
}
`

const grassVertex = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 3) in vec4 aColor;
layout (location = 4) in mat4 aInstance;

uniform mat4 uViewProj;
uniform float uTime;

out vec3 vNormal;
out vec4 vColor;
out vec3 vWorld;

void main() {
	vec4 world = aInstance * vec4(aPosition, 1.0);
	// Sway blade tips; the base stays planted.
	float sway = sin(uTime * 2.0 + aInstance[3].x * 0.3 + aInstance[3].z * 0.2) * 0.15;
	world.x += sway * max(aPosition.y, 0.0);
	vWorld = world.xyz;
	vNormal = mat3(aInstance) * aNormal;
	vColor = aColor;
	gl_Position = uViewProj * world;
}
`

const skinnedVertex = `
#version 410 core

layout (location = 0) in vec3 aPosition;
layout (location = 1) in vec3 aNormal;
layout (location = 3) in vec4 aColor;
layout (location = 4) in uint aBone;

layout (std140) uniform Bones {
	mat4 uBones[256];
};

uniform mat4 uViewProj;
uniform mat4 uModel;

out vec3 vNormal;
out vec4 vColor;
out vec3 vWorld;

void main() {
	mat4 skin = uModel * uBones[aBone];
	vec4 world = skin * vec4(aPosition, 1.0);
	vWorld = world.xyz;
	vNormal = mat3(skin) * aNormal;
	vColor = aColor;
	gl_Position = uViewProj * world;
}
`
